// pkg/pipeline/pipeline_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Stage chaining, failure isolation and cancellation in pipelines

package pipeline

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/testutil"
	"github.com/arthur-debert/sifter/pkg/types"
)

type reported struct {
	errs  []error
	files []string
}

func (r *reported) onErr(err error, file string) {
	r.errs = append(r.errs, err)
	r.files = append(r.files, file)
}

func producing(id string, outputs ...string) *testutil.MockProcessor {
	return &testutil.MockProcessor{
		ID: id,
		ProcessFunc: func(context.Context, types.ProcessInput) (types.ProcessingResult, error) {
			return types.Success(id, outputs...), nil
		},
	}
}

func TestRunChainsOutputs(t *testing.T) {
	first := producing("first", "/tmp/a", "/tmp/b")
	second := &testutil.MockProcessor{
		ID:     "second",
		Source: types.PreviousOutput,
		ProcessFunc: func(_ context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
			out := make([]string, 0)
			for _, f := range in.Files() {
				out = append(out, f+".gz")
			}
			return types.Success("second", out...), nil
		},
	}
	third := &testutil.MockProcessor{ID: "third", Source: types.OriginalFile}

	p := New("matched", first, second, third)
	res, err := p.Run(context.Background(), "/src/file", types.Yes("v"), []string{"v"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, second.Received()[0].Files())
	assert.Equal(t, []string{"/src/file"}, third.Received()[0].Files())
	assert.Equal(t, []string{"v"}, third.Received()[0].Values)
	assert.Equal(t, 3, res.SuccessCount)
	assert.Len(t, res.Stages, 3)
	assert.Equal(t, []string{}, res.Outputs, "outputs replace, they do not accumulate")
}

func TestRunIsolatesStageFailures(t *testing.T) {
	tests := []struct {
		name    string
		failing *testutil.MockProcessor
		code    errors.ErrorCode
	}{
		{
			name: "error",
			failing: &testutil.MockProcessor{ID: "bad", ProcessFunc: func(context.Context, types.ProcessInput) (types.ProcessingResult, error) {
				return types.ProcessingResult{}, stderrors.New("boom")
			}},
			code: errors.ErrProcessorRun,
		},
		{
			name: "panic",
			failing: &testutil.MockProcessor{ID: "bad", ProcessFunc: func(context.Context, types.ProcessInput) (types.ProcessingResult, error) {
				panic("kaboom")
			}},
			code: errors.ErrProcessorRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := &testutil.MockProcessor{ID: "after", Source: types.PreviousOutput}
			rep := &reported{}

			p := New("tested", producing("first", "/x"), tt.failing, after)
			res, err := p.Run(context.Background(), "/f", types.No(), nil, rep.onErr)
			require.NoError(t, err)

			require.Len(t, rep.errs, 1)
			assert.True(t, errors.IsErrorCode(rep.errs[0], tt.code))
			assert.Equal(t, []string{"/f"}, rep.files)
			assert.Equal(t, 1, res.FailureCount)

			require.Len(t, after.Received(), 1)
			got := after.Received()[0]
			assert.Equal(t, types.TargetGenerated, got.Target)
			assert.NotNil(t, got.GeneratedFiles)
			assert.Empty(t, got.GeneratedFiles)
		})
	}

	t.Run("panic is recovered as ErrPluginPanic", func(t *testing.T) {
		rep := &reported{}
		p := New("tested", &testutil.MockProcessor{ProcessFunc: func(context.Context, types.ProcessInput) (types.ProcessingResult, error) {
			panic("kaboom")
		}})
		_, err := p.Run(context.Background(), "/f", types.No(), nil, rep.onErr)
		require.NoError(t, err)
		require.Len(t, rep.errs, 1)
		assert.ErrorIs(t, rep.errs[0], errors.New(errors.ErrPluginPanic, ""))
	})
}

func TestRunCancellation(t *testing.T) {
	rec := &testutil.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	canceller := &testutil.MockProcessor{ID: "canceller", Rec: rec, ProcessFunc: func(ctx context.Context, _ types.ProcessInput) (types.ProcessingResult, error) {
		cancel()
		return types.ProcessingResult{}, ctx.Err()
	}}
	after := &testutil.MockProcessor{ID: "after", Rec: rec}
	rep := &reported{}

	_, err := New("matched", canceller, after).Run(ctx, "/f", types.Yes(), nil, rep.onErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rep.errs, "cancellation is not reported as a failure")
	assert.Equal(t, 0, rec.Count("process:after:/f"))
}

func TestRunEmpty(t *testing.T) {
	res, err := New("tested").Run(context.Background(), "/f", types.NotApplicable(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Stages)
	assert.NotNil(t, res.Outputs)
}

func TestFinalize(t *testing.T) {
	rec := &testutil.Recorder{}
	failing := &testutil.MockProcessor{ID: "a", Rec: rec, AggregatedFunc: func(context.Context) error { return stderrors.New("flush") }}
	panicking := &testutil.MockProcessor{ID: "b", Rec: rec, AggregatedFunc: func(context.Context) error { panic("x") }}
	ok := &testutil.MockProcessor{ID: "c", Rec: rec}
	rep := &reported{}

	require.NoError(t, New("matched", failing, panicking, ok).Finalize(context.Background(), rep.onErr))
	assert.Equal(t, []string{"aggregate:a", "aggregate:b", "aggregate:c"}, rec.Calls())
	require.Len(t, rep.errs, 2)
	for _, err := range rep.errs {
		assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorFlush))
	}
	assert.Equal(t, []string{"", ""}, rep.files)

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := New("matched", ok).Finalize(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
