package export

import (
	"bytes"
	"strings"

	"lavish/internal/core"
)

// CSVEncoder writes Date,Description,Amount,Type rows. The description is
// always quoted so spreadsheets never split it.
type CSVEncoder struct{}

const csvHeader = "Date,Description,Amount,Type\n"

func (CSVEncoder) EncodeRows(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(csvHeader)
	for _, r := range rows {
		buf.WriteString(r.Date)
		buf.WriteByte(',')
		buf.WriteString(quote(r.Description))
		buf.WriteByte(',')
		buf.WriteString(core.FormatAmount(r.Amount))
		buf.WriteByte(',')
		buf.WriteString(r.Type)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVEncoder) Extension() string   { return FormatCSV }

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
