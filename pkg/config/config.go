package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes environment overrides. A double underscore separates
// the section from the key: SIFTER_OUTPUT__MAX_RESULTS.
const EnvPrefix = "SIFTER_"

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the application configuration.
type Config struct {
	Output  OutputConfig  `koanf:"output"`
	Engine  EngineConfig  `koanf:"engine"`
	Logging LoggingConfig `koanf:"logging"`
}

type OutputConfig struct {
	MaxResults        int    `koanf:"max_results"`
	MaxErrors         int    `koanf:"max_errors"`
	ErrorMessageWidth int    `koanf:"error_message_width"`
	Color             string `koanf:"color"`
}

type EngineConfig struct {
	MaxToMatch int `koanf:"max_to_match"`
}

type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// UserConfigPath returns $XDG_CONFIG_HOME/sifter/config.toml.
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, logging.AppDirName, "config.toml")
}

// Load reads the configuration from the default locations.
func Load() (*Config, error) {
	return LoadFrom(UserConfigPath(), nil)
}

// LoadFrom layers defaults, the TOML file at path (skipped when empty or
// missing), the environment and overrides, in that order. Override keys use
// dotted paths such as "engine.max_to_match".
func LoadFrom(path string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Load user config if it exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			logger.Debug().Str("path", path).Msg("loaded user config")
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
		}
	}

	// 3. Load env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Command-line overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value int
	}{
		{"output.max_results", c.Output.MaxResults},
		{"output.max_errors", c.Output.MaxErrors},
		{"output.error_message_width", c.Output.ErrorMessageWidth},
		{"engine.max_to_match", c.Engine.MaxToMatch},
		{"logging.verbosity", c.Logging.Verbosity},
	}
	for _, ch := range checks {
		if ch.value < 0 {
			return errors.Newf(errors.ErrConfigValid, "%s must not be negative, got %d", ch.key, ch.value).
				WithDetail("key", ch.key)
		}
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Newf(errors.ErrConfigValid, "output.color must be auto, always or never, got %q", c.Output.Color).
			WithDetail("key", "output.color")
	}
	return nil
}

// DefaultContent returns the embedded defaults, used to seed a user config.
func DefaultContent() string {
	return string(defaultConfig)
}
