package types_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/sifter/pkg/types"
)

func errText(err error) string { return err.Error() }

func TestCombineOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		outcomes    []types.Outcome
		wantType    types.ProcessingType
		wantMessage string
		wantFiles   []string
	}{
		{
			name: "all_success",
			outcomes: []types.Outcome{
				{Result: types.Success("A", "/f1")},
				{Result: types.Success("B", "/f2")},
			},
			wantType:    types.ProcessingSuccess,
			wantMessage: "A | B",
			wantFiles:   []string{"/f1", "/f2"},
		},
		{
			name: "error_substitutes_message",
			outcomes: []types.Outcome{
				{Result: types.Success("A", "/f1")},
				{Err: stderrors.New("oops")},
			},
			wantType:    types.ProcessingFailure,
			wantMessage: "A | oops",
			wantFiles:   []string{"/f1"},
		},
		{
			name: "failure_result_keeps_outputs",
			outcomes: []types.Outcome{
				{Result: types.Failure("half", "/p")},
				{Result: types.Success("B")},
			},
			wantType:    types.ProcessingFailure,
			wantMessage: "half | B",
			wantFiles:   []string{"/p"},
		},
		{
			name: "not_applicable_is_not_failure",
			outcomes: []types.Outcome{
				{Result: types.Skipped("skip")},
				{Result: types.Success("B")},
			},
			wantType:    types.ProcessingSuccess,
			wantMessage: "skip | B",
			wantFiles:   []string{},
		},
		{
			name:        "empty",
			wantType:    types.ProcessingSuccess,
			wantMessage: "",
			wantFiles:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types.CombineOutcomes(tt.outcomes, errText)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantFiles, got.OutputFiles)
		})
	}
}
