package export

import (
	"os"

	"lavish/internal/core"
)

// Export encodes records with enc. An empty ledger yields ErrNothingToExport.
func Export(records []core.Record, enc Encoder, opts Options) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}
	return enc.EncodeRows(Rows(records, opts))
}

// ExportFile writes the export to path. Nothing is created for an empty
// ledger.
func ExportFile(records []core.Record, enc Encoder, opts Options, path string) error {
	data, err := Export(records, enc, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
