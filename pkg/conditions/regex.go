package conditions

import (
	"context"
	"regexp"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

const defaultMaxValues = 10

// Regex matches when any line of the decoded text matches the expression.
// The values are the matching lines, up to maxValues.
type Regex struct {
	base
	re        *regexp.Regexp
	maxValues int
}

func NewRegex(pattern string, caseInsensitive bool, maxValues int) (*Regex, error) {
	if pattern == "" {
		return nil, errors.New(errors.ErrPluginOptions, "regex condition needs a pattern")
	}
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginOptions, "invalid regular expression %q", pattern)
	}
	if maxValues <= 0 {
		maxValues = defaultMaxValues
	}
	return &Regex{base: newBase("regex"), re: re, maxValues: maxValues}, nil
}

func (r *Regex) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (r *Regex) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	txt, ok := text(caches)
	if !ok {
		return types.NotApplicable(), nil
	}
	lines, ok := txt.Lines()
	if !ok {
		return types.NotApplicable(), nil
	}

	values := []string{}
	matched := false
	for i, line := range lines {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return types.MatchResult{}, err
			}
		}
		if !r.re.MatchString(line) {
			continue
		}
		matched = true
		if len(values) >= r.maxValues {
			break
		}
		values = append(values, line)
	}

	if matched {
		return types.Yes(values...), nil
	}
	return types.No(), nil
}

func init() {
	plugins.RegisterCondition("regex", "matches lines of decoded text against a regular expression", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			Pattern         string `koanf:"pattern"`
			CaseInsensitive bool   `koanf:"case_insensitive"`
			MaxValues       int    `koanf:"max_values"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewRegex(opts.Pattern, opts.CaseInsensitive, opts.MaxValues)
	})
}
