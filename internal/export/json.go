package export

import "encoding/json"

type JSONEncoder struct{}

func (JSONEncoder) EncodeRows(rows []Row) ([]byte, error) {
	return json.MarshalIndent(rows, "", "  ")
}

func (JSONEncoder) ContentType() string { return "application/json" }
func (JSONEncoder) Extension() string   { return FormatJSON }
