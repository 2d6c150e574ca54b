package processors

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Base is embedded by concrete processors. It keeps the run's filesystem and
// ID between Init and Cleanup and does nothing on aggregation.
type Base struct {
	name     string
	source   types.InputFileSource
	produces types.ProducesFiles

	fs     afero.Fs
	runID  string
	logger zerolog.Logger
}

func NewBase(name string, source types.InputFileSource, produces types.ProducesFiles) Base {
	return Base{
		name:     name,
		source:   source,
		produces: produces,
		fs:       afero.NewOsFs(),
		logger:   logging.GetLogger("processors." + name),
	}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Init(rc *types.RunContext) error {
	if rc != nil {
		if rc.Fs != nil {
			b.fs = rc.Fs
		}
		b.runID = rc.ID
	}
	return nil
}

func (b *Base) Cleanup() error { return nil }

func (b *Base) ProcessAggregated(context.Context) error { return nil }

func (b *Base) InputSource() types.InputFileSource { return b.source }

func (b *Base) ProducesFiles() types.ProducesFiles { return b.produces }

// FileFunc handles a single file on behalf of a processor.
type FileFunc func(ctx context.Context, file string, in types.ProcessInput) (types.ProcessingResult, error)

// EachFile runs fn on the files in targets. For the original file fn is
// called once and its result returned as is. For generated files fn runs once
// per file in order; a failing file does not stop the others and the results
// are combined like Multi's. Cancellation stops the loop and is returned.
func EachFile(ctx context.Context, in types.ProcessInput, fn FileFunc) (types.ProcessingResult, error) {
	if in.Target == types.TargetOriginal {
		return fn(ctx, in.OriginalFile, in)
	}

	files := in.Files()
	if len(files) == 0 {
		return types.Skipped("no generated files"), nil
	}

	outcomes := make([]types.Outcome, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return types.ProcessingResult{}, err
		}
		var r types.ProcessingResult
		err := errors.Guard(func() error {
			var ferr error
			r, ferr = fn(ctx, file, in)
			return ferr
		})
		if errors.IsCanceled(err) {
			return types.ProcessingResult{}, err
		}
		outcomes = append(outcomes, types.Outcome{Result: r, Err: err})
	}
	return types.CombineOutcomes(outcomes, errors.Message), nil
}

// SingleFile turns a FileFunc into a Processor.
type SingleFile struct {
	Base
	fn FileFunc
}

func NewSingleFile(name string, source types.InputFileSource, produces types.ProducesFiles, fn FileFunc) *SingleFile {
	return &SingleFile{Base: NewBase(name, source, produces), fn: fn}
}

func (s *SingleFile) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, s.fn)
}
