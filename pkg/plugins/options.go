package plugins

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Options is what a factory receives: the raw option table from the run
// definition plus, for compound plugins, their already built children.
type Options struct {
	Values     map[string]any
	Input      types.InputFileSource
	Conditions []types.Condition
	Processors []types.Processor
}

// NewOptions wraps a raw option table.
func NewOptions(values map[string]any) Options {
	if values == nil {
		values = map[string]any{}
	}
	return Options{Values: values}
}

// Decode copies the option table into target using `koanf` struct tags.
// Strings are converted to durations, times and slices where the target
// field asks for them.
func (o Options) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "koanf",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create option decoder")
	}
	if err := decoder.Decode(o.Values); err != nil {
		return errors.Wrap(err, errors.ErrPluginOptions, "invalid options")
	}
	return nil
}

// String returns a string option or def when unset.
func (o Options) String(key, def string) string {
	if v, ok := o.Values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func build[T any](name, kind string, fn func() (T, error)) (T, error) {
	var out T
	err := errors.Guard(func() error {
		var ferr error
		out, ferr = fn()
		return ferr
	})
	if err != nil {
		var zero T
		code := errors.GetErrorCode(err)
		if code == errors.ErrUnknown {
			code = errors.ErrPluginOptions
		}
		return zero, errors.Wrapf(err, code, "cannot create %s '%s'", kind, name).WithDetail("plugin", name)
	}
	if v := reflect.ValueOf(out); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		var zero T
		return zero, errors.Newf(errors.ErrPluginInit, "%s factory '%s' returned nothing", kind, name)
	}
	return out, nil
}
