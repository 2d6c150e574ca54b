package fields

import (
	"context"

	"github.com/go-enry/go-enry/v2"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Language reports the programming language of the file as classified by
// enry, using the name and the content when it is readable.
type Language struct{ base }

func NewLanguage() *Language { return &Language{newBase("language")} }

func (l *Language) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (l *Language) Values(_ context.Context, file string, caches *cache.Set) ([]string, error) {
	var content []byte
	if txt, ok := textCache(caches); ok {
		if txt.IsBinary() {
			return []string{}, nil
		}
		content, _ = txt.Raw()
	}

	lang := enry.GetLanguage(file, content)
	if lang == "" {
		lang, _ = enry.GetLanguageByExtension(file)
	}
	if lang == "" {
		return []string{}, nil
	}
	return []string{lang}, nil
}

func init() {
	plugins.RegisterField("language", "programming language detected by name and content", func(plugins.Options) (types.FieldSource, error) {
		return NewLanguage(), nil
	})
}
