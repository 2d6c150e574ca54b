package filesource

import (
	"context"
	"iter"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// List yields a fixed set of paths in the order given. Paths are not checked;
// the engine skips the ones that do not exist.
type List struct {
	paths []string
	rc    *types.RunContext
}

func NewList(paths ...string) *List {
	return &List{paths: paths}
}

func (l *List) Name() string { return "list" }

func (l *List) Init(rc *types.RunContext) error {
	l.rc = rc
	return nil
}

func (l *List) Cleanup() error {
	l.rc = nil
	return nil
}

func (l *List) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range l.paths {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if l.rc.StopRequested() {
				return
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

func init() {
	plugins.RegisterSource("list", "yields a fixed list of paths", func(o plugins.Options) (types.FileSource, error) {
		var opts struct {
			Paths []string `koanf:"paths"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		if len(opts.Paths) == 0 {
			return nil, errors.New(errors.ErrPluginOptions, "list needs at least one path")
		}
		return NewList(opts.Paths...), nil
	})
}
