package conditions

import (
	"context"
	"strconv"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Size matches files whose size in bytes lies within [Min, Max]. A zero Max
// means no upper bound. The value reported is the size.
type Size struct {
	base
	min, max int64
}

func NewSize(min, max int64) (*Size, error) {
	if min < 0 || max < 0 || (max > 0 && min > max) {
		return nil, errors.Newf(errors.ErrPluginOptions, "invalid size range [%d, %d]", min, max)
	}
	return &Size{base: newBase("size"), min: min, max: max}, nil
}

func (s *Size) Matches(_ context.Context, file string, _ *cache.Set) (types.MatchResult, error) {
	info, err := s.stat(file)
	if err != nil {
		return types.MatchResult{}, err
	}
	if info.IsDir() {
		return types.NotApplicable(), nil
	}

	size := info.Size()
	value := strconv.FormatInt(size, 10)
	if size < s.min || (s.max > 0 && size > s.max) {
		return types.No(value), nil
	}
	return types.Yes(value), nil
}

func init() {
	plugins.RegisterCondition("size", "matches files within a byte size range", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			Min int64 `koanf:"min"`
			Max int64 `koanf:"max"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewSize(opts.Min, opts.Max)
	})
}
