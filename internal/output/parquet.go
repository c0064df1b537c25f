package output

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"lobx-feature-lab/internal/domain"
)

// WriteParquet writes the matrix as a parquet file. Column names and
// optionality come from the feature row's struct tags, so the parquet
// schema matches the descriptor by construction.
func WriteParquet(path string, rows []domain.FeatureRow) error {
	return writeAtomic(path, func(f *os.File) error {
		w := parquet.NewGenericWriter[domain.FeatureRow](f)

		for off := 0; off < len(rows); {
			n, err := w.Write(rows[off:])
			if err != nil {
				return fmt.Errorf("write parquet rows: %w", err)
			}
			if n == 0 {
				break
			}
			off += n
		}

		if err := w.Close(); err != nil {
			return fmt.Errorf("close parquet writer: %w", err)
		}
		return nil
	})
}
