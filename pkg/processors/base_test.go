package processors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/types"
)

// fanOut produces n outputs per input file.
func fanOut(n int) FileFunc {
	return func(_ context.Context, file string, _ types.ProcessInput) (types.ProcessingResult, error) {
		outs := make([]string, 0, n)
		for i := 0; i < n; i++ {
			outs = append(outs, fmt.Sprintf("%s.%d", file, i))
		}
		return types.Success("done "+file, outs...), nil
	}
}

func generated(files ...string) types.ProcessInput {
	return types.NewProcessInput("/orig", types.Yes(), nil).Resolve(types.PreviousOutput, files)
}

func TestEachFileOriginal(t *testing.T) {
	in := types.NewProcessInput("/orig", types.Yes(), nil)
	got, err := EachFile(context.Background(), in, fanOut(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"/orig.0", "/orig.1"}, got.OutputFiles)
	assert.Equal(t, "done /orig", got.Message)
}

func TestEachFileGeneratedChaining(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("outputs_per_input_%d", n), func(t *testing.T) {
			got, err := EachFile(context.Background(), generated("/g1", "/g2", "/g3"), fanOut(n))
			require.NoError(t, err)
			assert.Equal(t, types.ProcessingSuccess, got.Type)
			assert.Len(t, got.OutputFiles, 3*n)
			if n > 0 {
				assert.Equal(t, "/g1.0", got.OutputFiles[0])
				assert.Equal(t, fmt.Sprintf("/g3.%d", n-1), got.OutputFiles[3*n-1])
			}
			assert.Equal(t, "done /g1 | done /g2 | done /g3", got.Message)
		})
	}
}

func TestEachFileIsolation(t *testing.T) {
	fn := func(_ context.Context, file string, _ types.ProcessInput) (types.ProcessingResult, error) {
		switch file {
		case "/bad":
			return types.ProcessingResult{}, stderrors.New("oops")
		case "/panic":
			panic("exploded")
		}
		return types.Success("ok", file+".out"), nil
	}

	got, err := EachFile(context.Background(), generated("/a", "/bad", "/panic", "/b"), fn)
	require.NoError(t, err)
	assert.Equal(t, types.ProcessingFailure, got.Type)
	assert.Equal(t, []string{"/a.out", "/b.out"}, got.OutputFiles)
	assert.Contains(t, got.Message, "ok | oops | plugin panicked: exploded | ok")
}

func TestEachFileEmptyAndCancelled(t *testing.T) {
	got, err := EachFile(context.Background(), generated(), fanOut(1))
	require.NoError(t, err)
	assert.Equal(t, types.ProcessingNotApplicable, got.Type)
	assert.NotNil(t, got.OutputFiles)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err = EachFile(ctx, generated("/1", "/2", "/3"), func(context.Context, string, types.ProcessInput) (types.ProcessingResult, error) {
		calls++
		cancel()
		return types.Success(""), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestSingleFile(t *testing.T) {
	p := NewSingleFile("fan", types.PreviousOutput, types.ProducesAlways, fanOut(2))
	assert.Equal(t, "fan", p.Name())
	assert.Equal(t, types.PreviousOutput, p.InputSource())
	assert.Equal(t, types.ProducesAlways, p.ProducesFiles())
	require.NoError(t, p.Init(nil))
	require.NoError(t, p.ProcessAggregated(context.Background()))

	got, err := p.Process(context.Background(), generated("/x", "/y", "/z"))
	require.NoError(t, err)
	assert.Len(t, got.OutputFiles, 6)
	require.NoError(t, p.Cleanup())
}
