package fields

import (
	"context"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// XMLPath reports the text (or one attribute) of every element selected by an
// etree path such as "//dependency/artifactId". Files that do not parse as XML
// yield no values.
type XMLPath struct {
	base
	path      etree.Path
	attribute string
}

func NewXMLPath(path, attribute string) (*XMLPath, error) {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginOptions, "invalid xml path %q", path)
	}
	return &XMLPath{base: newBase("xml_path"), path: compiled, attribute: attribute}, nil
}

func (x *XMLPath) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (x *XMLPath) Values(_ context.Context, file string, caches *cache.Set) ([]string, error) {
	txt, ok := textCache(caches)
	if !ok {
		return []string{}, nil
	}
	content, ok := txt.Content()
	if !ok || !strings.Contains(content, "<") {
		return []string{}, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		x.logger.Trace().Err(err).Str("file", file).Msg("not xml")
		return []string{}, nil
	}

	values := []string{}
	for _, el := range doc.FindElementsPath(x.path) {
		if x.attribute != "" {
			if attr := el.SelectAttr(x.attribute); attr != nil {
				values = append(values, attr.Value)
			}
			continue
		}
		values = append(values, strings.TrimSpace(el.Text()))
	}
	return values, nil
}

func init() {
	plugins.RegisterField("xml_path", "text or attribute of XML elements selected by a path", func(o plugins.Options) (types.FieldSource, error) {
		var opts struct {
			Path      string `koanf:"path"`
			Attribute string `koanf:"attribute"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewXMLPath(opts.Path, opts.Attribute)
	})
}
