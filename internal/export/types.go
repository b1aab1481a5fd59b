// Package export renders the ledger as a downloadable file.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lavish/internal/core"
)

// DefaultDateLayout matches en-US short dates (M/D/YYYY).
const DefaultDateLayout = "1/2/2006"

// BaseName is the download name without extension.
const BaseName = "finance_tracker"

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrNothingToExport is returned for an empty ledger; no file is produced.
	ErrNothingToExport = errors.New("nothing to export")
	ErrUnknownFormat   = errors.New("unknown export format")
)

// Row is one exported record with its date already rendered.
type Row struct {
	Date        string  `json:"date" yaml:"date"`
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Type        string  `json:"type" yaml:"type"`
}

// Encoder turns rows into file contents.
type Encoder interface {
	EncodeRows(rows []Row) ([]byte, error)
	ContentType() string
	Extension() string
}

// Options controls how record timestamps are rendered.
type Options struct {
	DateLayout string
	Location   *time.Location
}

func (o Options) layout() string {
	if o.DateLayout == "" {
		return DefaultDateLayout
	}
	return o.DateLayout
}

// Rows converts records in insertion order.
func Rows(records []core.Record, opts Options) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Date:        r.Time(opts.Location).Format(opts.layout()),
			Description: r.Description,
			Amount:      r.Amount,
			Type:        r.Type.String(),
		})
	}
	return rows
}

// ForFormat picks the encoder for format; "" means CSV.
func ForFormat(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return CSVEncoder{}, nil
	case FormatJSON:
		return JSONEncoder{}, nil
	case FormatYAML, "yml":
		return YAMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Filename is the download name for enc.
func Filename(enc Encoder) string {
	return BaseName + "." + enc.Extension()
}
