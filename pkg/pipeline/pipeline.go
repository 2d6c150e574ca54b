// Package pipeline runs an ordered list of processors on one file.
// It encapsulates the flow: resolve each stage's input → process → thread
// the stage's outputs into the next stage.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ErrorFunc receives stage failures together with the file being processed.
// file is empty for failures raised while finalizing.
type ErrorFunc func(err error, file string)

// Pipeline is a named, ordered list of processors.
type Pipeline struct {
	name   string
	stages []types.Processor
	logger zerolog.Logger
}

// Result contains the outcome of running a pipeline on a single file
type Result struct {
	File         string
	SuccessCount int
	FailureCount int
	SkippedCount int
	Stages       []StageResult
	// Outputs are the files produced by the last stage.
	Outputs []string
}

// StageResult is what one processor reported.
type StageResult struct {
	Processor string
	Result    types.ProcessingResult
	Error     error
}

func New(name string, stages ...types.Processor) *Pipeline {
	return &Pipeline{
		name:   name,
		stages: stages,
		logger: logging.GetLogger("pipeline." + name),
	}
}

func (p *Pipeline) Name() string { return p.name }

// Stages returns the processors in run order.
func (p *Pipeline) Stages() []types.Processor { return p.stages }

func (p *Pipeline) Len() int { return len(p.stages) }

// Run processes file through every stage in order. A stage that errors or
// panics is reported through onErr and contributes no outputs; later stages
// still run, PreviousOutput stages with an empty list. Only cancellation
// stops the pipeline early, in which case the context error is returned.
func (p *Pipeline) Run(ctx context.Context, file string, match types.MatchResult, values []string, onErr ErrorFunc) (*Result, error) {
	result := &Result{
		File:    file,
		Stages:  make([]StageResult, 0, len(p.stages)),
		Outputs: []string{},
	}
	if len(p.stages) == 0 {
		return result, nil
	}

	root := types.NewProcessInput(file, match, values)
	previous := []string{}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := types.NameOf(stage)
		in := root.Resolve(stage.InputSource(), previous)

		var r types.ProcessingResult
		err := errors.Guard(func() error {
			var perr error
			r, perr = stage.Process(ctx, in)
			return perr
		})
		if errors.IsCanceled(err) {
			return result, err
		}

		if err != nil {
			err = errors.Wrapf(err, errors.ErrProcessorRun, "processor %s", name).WithDetail("file", file)
			p.logger.Debug().Err(err).Str("file", file).Str("processor", name).Msg("stage failed")
			if onErr != nil {
				onErr(err, file)
			}
			result.FailureCount++
			result.Stages = append(result.Stages, StageResult{Processor: name, Error: err})
			previous = []string{}
			continue
		}

		if r.OutputFiles == nil {
			r.OutputFiles = []string{}
		}
		switch r.Type {
		case types.ProcessingSuccess:
			result.SuccessCount++
		case types.ProcessingFailure:
			result.FailureCount++
		default:
			result.SkippedCount++
		}
		result.Stages = append(result.Stages, StageResult{Processor: name, Result: r})
		previous = r.OutputFiles
	}

	result.Outputs = previous
	p.logger.Trace().
		Str("file", file).
		Int("success", result.SuccessCount).
		Int("failed", result.FailureCount).
		Int("skipped", result.SkippedCount).
		Msg("pipeline completed")
	return result, nil
}

// Finalize calls ProcessAggregated on every stage in order. Failures are
// reported through onErr and do not stop the remaining stages; cancellation
// does, and is returned.
func (p *Pipeline) Finalize(ctx context.Context, onErr ErrorFunc) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := errors.Guard(func() error { return stage.ProcessAggregated(ctx) })
		if errors.IsCanceled(err) {
			return err
		}
		if err != nil {
			err = errors.Wrapf(err, errors.ErrProcessorFlush, "processor %s", types.NameOf(stage))
			p.logger.Warn().Err(err).Msg("finalize failed")
			if onErr != nil {
				onErr(err, "")
			}
		}
	}
	return nil
}
