package fields

import (
	"context"
	"strconv"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Lines reports the number of lines of decoded text.
type Lines struct{ base }

func NewLines() *Lines { return &Lines{newBase("lines")} }

func (l *Lines) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (l *Lines) Values(_ context.Context, _ string, caches *cache.Set) ([]string, error) {
	txt, ok := textCache(caches)
	if !ok {
		return []string{}, nil
	}
	lines, ok := txt.Lines()
	if !ok {
		return []string{}, nil
	}
	return []string{strconv.Itoa(len(lines))}, nil
}

// Encoding reports the detected source encoding of text files.
type Encoding struct{ base }

func NewEncoding() *Encoding { return &Encoding{newBase("encoding")} }

func (e *Encoding) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (e *Encoding) Values(_ context.Context, _ string, caches *cache.Set) ([]string, error) {
	txt, ok := textCache(caches)
	if !ok {
		return []string{}, nil
	}
	if _, ok := txt.Content(); !ok {
		return []string{}, nil
	}
	return []string{txt.Encoding()}, nil
}

func init() {
	plugins.RegisterField("lines", "number of lines of text", func(plugins.Options) (types.FieldSource, error) {
		return NewLines(), nil
	})
	plugins.RegisterField("encoding", "detected text encoding", func(plugins.Options) (types.FieldSource, error) {
		return NewEncoding(), nil
	})
}
