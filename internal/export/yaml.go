package export

import "gopkg.in/yaml.v3"

// YAMLEncoder writes the rows as a YAML sequence.
type YAMLEncoder struct{}

func (YAMLEncoder) EncodeRows(rows []Row) ([]byte, error) {
	return yaml.Marshal(rows)
}

func (YAMLEncoder) ContentType() string { return "application/yaml" }
func (YAMLEncoder) Extension() string   { return FormatYAML }
