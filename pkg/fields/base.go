package fields

import (
	"context"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

type base struct {
	name   string
	fs     afero.Fs
	logger zerolog.Logger
}

func newBase(name string) base {
	return base{name: name, fs: afero.NewOsFs(), logger: logging.GetLogger("fields." + name)}
}

func (b *base) Name() string { return b.name }

func (b *base) Init(rc *types.RunContext) error {
	if rc != nil && rc.Fs != nil {
		b.fs = rc.Fs
	}
	return nil
}

func (b *base) Cleanup() error { return nil }

func (b *base) CacheKinds() []cache.Kind { return nil }

// Stat is a field computed from the file's metadata alone.
type Stat struct {
	base
	extract func(path string, info fs.FileInfo) []string
}

// NewStat builds a metadata field from extract.
func NewStat(name string, extract func(path string, info fs.FileInfo) []string) *Stat {
	return &Stat{base: newBase(name), extract: extract}
}

func (s *Stat) Values(_ context.Context, file string, _ *cache.Set) ([]string, error) {
	info, err := s.fs.Stat(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", file).WithDetail("path", file)
	}
	values := s.extract(file, info)
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func registerStat(name, description string, extract func(path string, info fs.FileInfo) []string) {
	plugins.RegisterField(name, description, func(o plugins.Options) (types.FieldSource, error) {
		var none struct{}
		if err := o.Decode(&none); err != nil {
			return nil, err
		}
		return NewStat(name, extract), nil
	})
}

func textCache(caches *cache.Set) (*cache.Text, bool) {
	return cache.Lookup[*cache.Text](caches, cache.KindText)
}
