package conditions

import (
	"context"
	"fmt"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ImageBounds limits image dimensions in pixels. Zero means unbounded.
type ImageBounds struct {
	MinWidth  int `koanf:"min_width"`
	MinHeight int `koanf:"min_height"`
	MaxWidth  int `koanf:"max_width"`
	MaxHeight int `koanf:"max_height"`
}

// Image matches images whose dimensions fit the bounds. Files that are not
// decodable images are NotApplicable. The value is "WxH".
type Image struct {
	base
	bounds ImageBounds
}

func NewImage(bounds ImageBounds) *Image {
	return &Image{base: newBase("image"), bounds: bounds}
}

func (i *Image) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindImage} }

func (i *Image) Matches(_ context.Context, _ string, caches *cache.Set) (types.MatchResult, error) {
	img, ok := cache.Lookup[*cache.Image](caches, cache.KindImage)
	if !ok {
		return types.NotApplicable(), nil
	}
	cfg, _, ok := img.Config()
	if !ok {
		return types.NotApplicable(), nil
	}

	b := i.bounds
	value := fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	if cfg.Width < b.MinWidth || cfg.Height < b.MinHeight ||
		(b.MaxWidth > 0 && cfg.Width > b.MaxWidth) ||
		(b.MaxHeight > 0 && cfg.Height > b.MaxHeight) {
		return types.No(value), nil
	}
	return types.Yes(value), nil
}

func init() {
	plugins.RegisterCondition("image", "matches png, jpeg and gif images by dimensions", func(o plugins.Options) (types.Condition, error) {
		var bounds ImageBounds
		if err := o.Decode(&bounds); err != nil {
			return nil, err
		}
		return NewImage(bounds), nil
	})
}
