package definition

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
)

// Format is a definition document syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Node names a plugin and its options. Input and Children only apply where
// the plugin kind supports them.
type Node struct {
	Type     string                 `koanf:"type" toml:"type" yaml:"type"`
	Input    string                 `koanf:"input" toml:"input,omitempty" yaml:"input,omitempty"`
	Options  map[string]interface{} `koanf:"options" toml:"options,omitempty" yaml:"options,omitempty"`
	Children []Node                 `koanf:"children" toml:"children,omitempty" yaml:"children,omitempty"`
}

// Definition is a parsed run definition.
type Definition struct {
	Version     string `koanf:"version" toml:"version" yaml:"version"`
	Name        string `koanf:"name" toml:"name,omitempty" yaml:"name,omitempty"`
	Description string `koanf:"description" toml:"description,omitempty" yaml:"description,omitempty"`
	MaxToMatch  int    `koanf:"max_to_match" toml:"max_to_match" yaml:"max_to_match"`
	Source      Node   `koanf:"source" toml:"source" yaml:"source"`
	Condition   *Node  `koanf:"condition" toml:"condition,omitempty" yaml:"condition,omitempty"`
	Fields      []Node `koanf:"fields" toml:"fields,omitempty" yaml:"fields,omitempty"`
	Tested      []Node `koanf:"tested" toml:"tested,omitempty" yaml:"tested,omitempty"`
	Matched     []Node `koanf:"matched" toml:"matched,omitempty" yaml:"matched,omitempty"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrDefinitionLoad, "cannot tell the format of %s (want .toml, .yaml or .yml)", path)
	}
}

func parser(format Format) (koanf.Parser, error) {
	switch format {
	case FormatTOML:
		return toml.Parser(), nil
	case FormatYAML:
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrDefinitionLoad, "unknown format %q", format)
	}
}

// Load reads, validates and decodes the definition at path.
func Load(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	p, err := parser(format)
	if err != nil {
		return nil, err
	}

	k := koanf.New("::")
	if err := k.Load(file.Provider(path), p); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDefinitionLoad, "failed to load definition from %s", path)
	}
	logger := logging.GetLogger("definition")
	logger.Debug().Str("path", path).Str("format", string(format)).Msg("definition loaded")
	return decode(k)
}

// Parse validates and decodes a definition held in memory.
func Parse(data []byte, format Format) (*Definition, error) {
	p, err := parser(format)
	if err != nil {
		return nil, err
	}
	k := koanf.New("::")
	if err := k.Load(&rawBytesProvider{bytes: data}, p); err != nil {
		return nil, errors.Wrap(err, errors.ErrDefinitionLoad, "failed to parse definition")
	}
	return decode(k)
}

func decode(k *koanf.Koanf) (*Definition, error) {
	raw := k.Raw()
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var def Definition
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &def,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &def, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrDefinitionInvalid, "failed to decode definition")
	}
	if err := checkVersion(def.Version); err != nil {
		return nil, err
	}
	return &def, nil
}
