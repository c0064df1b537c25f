package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/featset"
)

// WriteCSV writes the matrix as CSV with a header row. Null cells are
// empty strings; floats use the shortest round-trip representation.
func WriteCSV(path string, rows []domain.FeatureRow) error {
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)

		header := make([]string, 0, 2+len(featset.Features)+1)
		header = append(header, featset.IndexColumns...)
		header = append(header, featset.FeatureNames()...)
		header = append(header, featset.LabelColumn)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}

		record := make([]string, len(header))
		for i := range rows {
			record[0] = rows[i].Symbol
			record[1] = strconv.FormatInt(rows[i].BucketMs, 10)
			for j, col := range featset.Features {
				cell := col.Ptr(&rows[i])
				if *cell == nil {
					record[2+j] = ""
				} else {
					record[2+j] = strconv.FormatFloat(**cell, 'g', -1, 64)
				}
			}
			record[len(record)-1] = strconv.FormatInt(rows[i].Label, 10)
			if err := w.Write(record); err != nil {
				return fmt.Errorf("write csv row %d: %w", i, err)
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		return nil
	})
}
