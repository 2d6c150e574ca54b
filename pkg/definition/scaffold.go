package definition

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/sifter/pkg/errors"
)

// Starter is the definition written by Scaffold: every Go file below the
// current directory, with its line count, copied into ./found.
func Starter() *Definition {
	return &Definition{
		Version:     CurrentVersion,
		Name:        "example",
		Description: "copy Go sources that mention TODO",
		Source: Node{
			Type:    "directory",
			Options: map[string]interface{}{"root": ".", "exclude": []string{"vendor"}},
		},
		Condition: &Node{
			Type: "all",
			Children: []Node{
				{Type: "filename", Options: map[string]interface{}{"pattern": "*.go"}},
				{Type: "content", Options: map[string]interface{}{"words": []string{"TODO"}}},
			},
		},
		Fields: []Node{{Type: "lines"}},
		Tested: []Node{{Type: "csv", Options: map[string]interface{}{"output": "sifter-report.csv"}}},
		Matched: []Node{{
			Type:    "copy",
			Input:   "original",
			Options: map[string]interface{}{"destination": "found", "root": "."},
		}},
	}
}

// Scaffold renders the starter definition in format.
func Scaffold(format Format) ([]byte, error) {
	def := Starter()
	switch format {
	case FormatTOML:
		out, err := toml.Marshal(def)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot render TOML")
		}
		return out, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot render YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot render YAML")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want toml or yaml)", format)
	}
}
