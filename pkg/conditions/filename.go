package conditions

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

const FilenameConditionName = "filename"

// Filename matches a file's base name against a glob or an exact name.
type Filename struct {
	base
	pattern         string
	isGlob          bool
	caseInsensitive bool
}

// NewFilename creates a Filename condition. Patterns without glob characters
// are compared literally.
func NewFilename(pattern string, caseInsensitive bool) (*Filename, error) {
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	isGlob := containsGlobChars(pattern)
	if isGlob {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginOptions, "invalid glob pattern %q", pattern)
		}
	}
	return &Filename{
		base:            newBase(FilenameConditionName),
		pattern:         pattern,
		isGlob:          isGlob,
		caseInsensitive: caseInsensitive,
	}, nil
}

func (f *Filename) Matches(_ context.Context, file string, _ *cache.Set) (types.MatchResult, error) {
	name := filepath.Base(file)
	if f.caseInsensitive {
		name = strings.ToLower(name)
	}

	matched := name == f.pattern
	if f.isGlob {
		matched, _ = filepath.Match(f.pattern, name)
	}

	if matched {
		f.logger.Trace().Str("pattern", f.pattern).Str("file", file).Msg("file matched")
		return types.Yes(), nil
	}
	return types.No(), nil
}

// containsGlobChars checks if a pattern contains glob special characters
func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}

func init() {
	plugins.RegisterCondition(FilenameConditionName, "matches the file name against a glob or exact name", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			Pattern         string `koanf:"pattern"`
			CaseInsensitive bool   `koanf:"case_insensitive"`
		}
		opts.Pattern = "*"
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewFilename(opts.Pattern, opts.CaseInsensitive)
	})
}
