package processors

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Multi runs its children as one processor. Every child runs on every input;
// outputs are concatenated in child order and messages joined with " | ",
// an erroring child contributing its error text. The result fails if any
// child failed or errored.
//
// Children resolve their input against Multi's own input: ParentInput children
// see exactly what Multi received and PreviousOutput children see the outputs
// of the sibling before them.
type Multi struct {
	Base
	children []types.Processor
}

func NewMulti(source types.InputFileSource, children ...types.Processor) *Multi {
	produces := types.ProducesNever
	for _, c := range children {
		if c.ProducesFiles() > produces {
			produces = c.ProducesFiles()
		}
	}
	return &Multi{Base: NewBase("multi", source, produces), children: children}
}

// Children returns the wrapped processors.
func (m *Multi) Children() []types.Processor { return m.children }

func (m *Multi) Init(rc *types.RunContext) error {
	if err := m.Base.Init(rc); err != nil {
		return err
	}
	var errs []error
	for _, child := range m.children {
		if err := errors.Guard(func() error { return child.Init(rc) }); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrPluginInit, "processor %s", types.NameOf(child)))
		}
	}
	return stderrors.Join(errs...)
}

func (m *Multi) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	outcomes := make([]types.Outcome, 0, len(m.children))
	previous := []string{}

	for _, child := range m.children {
		if err := ctx.Err(); err != nil {
			return types.ProcessingResult{}, err
		}

		childIn := in.Resolve(child.InputSource(), previous)
		var r types.ProcessingResult
		err := errors.Guard(func() error {
			var perr error
			r, perr = child.Process(ctx, childIn)
			return perr
		})
		if errors.IsCanceled(err) {
			return types.ProcessingResult{}, err
		}
		if err != nil {
			m.logger.Debug().Err(err).Str("child", types.NameOf(child)).Msg("child processor failed")
			previous = []string{}
		} else {
			previous = r.OutputFiles
		}
		outcomes = append(outcomes, types.Outcome{Result: r, Err: err})
	}

	return types.CombineOutcomes(outcomes, errors.Message), nil
}

func (m *Multi) ProcessAggregated(ctx context.Context) error {
	var errs []error
	for _, child := range m.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := errors.Guard(func() error { return child.ProcessAggregated(ctx) })
		if errors.IsCanceled(err) {
			return err
		}
		if err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrProcessorFlush, "processor %s", types.NameOf(child)))
		}
	}
	return stderrors.Join(errs...)
}

func (m *Multi) Cleanup() error {
	var errs []error
	for _, child := range m.children {
		if err := errors.Guard(child.Cleanup); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrPluginCleanup, "processor %s", types.NameOf(child)))
		}
	}
	return stderrors.Join(errs...)
}

func init() {
	plugins.RegisterProcessor("multi", "runs several processors as one, combining their results", func(o plugins.Options) (types.Processor, error) {
		if len(o.Processors) == 0 {
			return nil, errors.New(errors.ErrPluginOptions, "multi needs at least one child processor")
		}
		return NewMulti(o.Input, o.Processors...), nil
	})
}
