package output

import (
	"encoding/json"
	"fmt"
	"os"

	"lobx-feature-lab/internal/featset"
)

// WriteDescriptor writes the schema descriptor as indented JSON. Callers
// must write the matrix first so a descriptor on disk always refers to
// an existing matrix.
func WriteDescriptor(path string, d *featset.Descriptor) error {
	return writeAtomic(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		return nil
	})
}
