package featset

import (
	"fmt"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// SchemaVersion is bumped whenever the column registry changes shape.
const SchemaVersion = 2

// Descriptor is the machine-readable schema emitted next to the matrix.
// Consumers use it to parse the matrix without sniffing dtypes.
type Descriptor struct {
	Version        int               `json:"version"`
	HorizonSeconds int               `json:"horizon_seconds"`
	IndexCols      []string          `json:"index_cols"`
	FeatureCols    []string          `json:"feature_cols"`
	LabelCol       string            `json:"label_col"`
	Dtypes         map[string]string `json:"dtypes"`
	RowCount       int               `json:"row_count"`
}

// BuildDescriptor assembles the descriptor for a finished matrix.
func BuildDescriptor(rows []domain.FeatureRow, horizonSeconds int) *Descriptor {
	return &Descriptor{
		Version:        SchemaVersion,
		HorizonSeconds: horizonSeconds,
		IndexCols:      IndexColumns,
		FeatureCols:    FeatureNames(),
		LabelCol:       LabelColumn,
		Dtypes:         Dtypes(),
		RowCount:       len(rows),
	}
}

// Validate cross-checks a descriptor against the matrix it describes.
// It guards the writer: a descriptor that disagrees with the rows must
// never reach disk.
func (d *Descriptor) Validate(rows []domain.FeatureRow) error {
	if d.RowCount != len(rows) {
		return fmt.Errorf("descriptor row_count %d does not match matrix rows %d: %w",
			d.RowCount, len(rows), storage.ErrInvalidInput)
	}
	if d.LabelCol == "" {
		return fmt.Errorf("descriptor has empty label_col: %w", storage.ErrInvalidInput)
	}
	if len(d.FeatureCols) != len(Features) {
		return fmt.Errorf("descriptor has %d feature_cols, registry has %d: %w",
			len(d.FeatureCols), len(Features), storage.ErrInvalidInput)
	}
	for i, name := range d.FeatureCols {
		if name != Features[i].Name {
			return fmt.Errorf("descriptor feature_cols[%d] = %q, registry has %q: %w",
				i, name, Features[i].Name, storage.ErrInvalidInput)
		}
		if _, ok := d.Dtypes[name]; !ok {
			return fmt.Errorf("descriptor dtypes missing %q: %w", name, storage.ErrInvalidInput)
		}
	}
	return nil
}
