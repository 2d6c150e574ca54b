package fields

import (
	"context"
	"fmt"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ImageSize reports "WxH" and the format name for decodable images.
type ImageSize struct{ base }

func NewImageSize() *ImageSize { return &ImageSize{newBase("image_size")} }

func (i *ImageSize) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindImage} }

func (i *ImageSize) Values(_ context.Context, _ string, caches *cache.Set) ([]string, error) {
	img, ok := cache.Lookup[*cache.Image](caches, cache.KindImage)
	if !ok {
		return []string{}, nil
	}
	cfg, format, ok := img.Config()
	if !ok {
		return []string{}, nil
	}
	return []string{fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), format}, nil
}

func init() {
	plugins.RegisterField("image_size", "image dimensions and format", func(plugins.Options) (types.FieldSource, error) {
		return NewImageSize(), nil
	})
}
