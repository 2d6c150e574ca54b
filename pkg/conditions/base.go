package conditions

import (
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/types"
)

// base carries the lifecycle shared by concrete conditions: it keeps the run's
// filesystem and a logger between Init and Cleanup.
type base struct {
	name   string
	fs     afero.Fs
	logger zerolog.Logger
}

func newBase(name string) base {
	return base{name: name, fs: afero.NewOsFs(), logger: logging.GetLogger("conditions." + name)}
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

func (b *base) stat(file string) (fs.FileInfo, error) {
	info, err := b.fs.Stat(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", file).WithDetail("path", file)
	}
	return info, nil
}

// text returns the decoded content from the text cache.
func text(caches *cache.Set) (*cache.Text, bool) {
	return cache.Lookup[*cache.Text](caches, cache.KindText)
}
