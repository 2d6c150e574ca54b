package conditions

import (
	"context"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ContentMode selects whether any or all words must occur.
type ContentMode string

const (
	ContentAny ContentMode = "any"
	ContentAll ContentMode = "all"
)

// Content searches the decoded text for a set of words in one pass. The values
// are the words found, in the order they first occur in the file.
type Content struct {
	base
	words     []string
	mode      ContentMode
	automaton ac.AhoCorasick
}

func NewContent(words []string, mode ContentMode, caseInsensitive, wholeWords bool) (*Content, error) {
	words = dedupe(words)
	if len(words) == 0 {
		return nil, errors.New(errors.ErrPluginOptions, "content condition needs at least one word")
	}
	switch mode {
	case "":
		mode = ContentAny
	case ContentAny, ContentAll:
	default:
		return nil, errors.Newf(errors.ErrPluginOptions, "unknown content mode %q (want any or all)", mode)
	}

	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: caseInsensitive,
		MatchOnlyWholeWords:  wholeWords,
		MatchKind:            ac.LeftMostLongestMatch,
	})
	return &Content{
		base:      newBase("content"),
		words:     words,
		mode:      mode,
		automaton: builder.Build(words),
	}, nil
}

func (c *Content) CacheKinds() []cache.Kind { return []cache.Kind{cache.KindText} }

func (c *Content) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	txt, ok := text(caches)
	if !ok {
		return types.NotApplicable(), nil
	}
	content, ok := txt.Content()
	if !ok {
		return types.NotApplicable(), nil
	}
	if err := ctx.Err(); err != nil {
		return types.MatchResult{}, err
	}

	seen := make([]bool, len(c.words))
	found := []string{}
	for _, m := range c.automaton.FindAll(content) {
		idx := m.Pattern()
		if idx < 0 || idx >= len(c.words) || seen[idx] {
			continue
		}
		seen[idx] = true
		found = append(found, c.words[idx])
	}

	matched := len(found) > 0
	if c.mode == ContentAll {
		matched = len(found) == len(c.words)
	}
	if matched {
		return types.Yes(found...), nil
	}
	return types.No(found...), nil
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func init() {
	plugins.RegisterCondition("content", "searches decoded file text for any or all of a list of words", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			Words           []string `koanf:"words"`
			Mode            string   `koanf:"mode"`
			CaseInsensitive bool     `koanf:"case_insensitive"`
			WholeWords      bool     `koanf:"whole_words"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewContent(opts.Words, ContentMode(opts.Mode), opts.CaseInsensitive, opts.WholeWords)
	})
}
