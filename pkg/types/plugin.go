package types

import (
	"context"
	"fmt"
	"iter"

	"github.com/arthur-debert/sifter/pkg/cache"
)

// Lifecycle brackets a run. Init is called once before the first file and
// Cleanup once after the last; neither may keep the RunContext afterwards.
type Lifecycle interface {
	Init(rc *RunContext) error
	Cleanup() error
}

// CacheUser declares the per-file caches a plugin reads.
type CacheUser interface {
	CacheKinds() []cache.Kind
}

// Condition decides whether a file matches.
type Condition interface {
	Lifecycle
	CacheUser
	Matches(ctx context.Context, file string, caches *cache.Set) (MatchResult, error)
}

// FieldSource extracts values for a file regardless of whether it matched.
type FieldSource interface {
	Lifecycle
	CacheUser
	Values(ctx context.Context, file string, caches *cache.Set) ([]string, error)
}

// Processor acts on files handed to it by a pipeline.
type Processor interface {
	Lifecycle
	Process(ctx context.Context, in ProcessInput) (ProcessingResult, error)
	// ProcessAggregated flushes run-wide state after the last file.
	ProcessAggregated(ctx context.Context) error
	InputSource() InputFileSource
	ProducesFiles() ProducesFiles
}

// FileSource enumerates candidate files. The sequence is lazy and can only be
// iterated once per run; a non-nil error ends enumeration.
type FileSource interface {
	Lifecycle
	Files(ctx context.Context) iter.Seq2[string, error]
}

// Named is implemented by plugins that know their registered name.
type Named interface {
	Name() string
}

// NameOf returns the plugin's name for logs and error messages.
func NameOf(v any) string {
	if n, ok := v.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}
