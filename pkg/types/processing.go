package types

import "strings"

// ProcessingType is the outcome of running a processor on one input.
type ProcessingType int

const (
	ProcessingSuccess ProcessingType = iota
	ProcessingFailure
	ProcessingNotApplicable
)

func (p ProcessingType) String() string {
	switch p {
	case ProcessingSuccess:
		return "success"
	case ProcessingFailure:
		return "failure"
	default:
		return "not_applicable"
	}
}

// ProcessingResult is what a processor reports for a single input.
// OutputFiles is never nil.
type ProcessingResult struct {
	Type        ProcessingType
	Message     string
	OutputFiles []string
}

func newResult(t ProcessingType, msg string, files []string) ProcessingResult {
	if files == nil {
		files = []string{}
	}
	return ProcessingResult{Type: t, Message: msg, OutputFiles: files}
}

// Success builds a successful result.
func Success(msg string, outputs ...string) ProcessingResult {
	return newResult(ProcessingSuccess, msg, outputs)
}

// Failure builds a failed result.
func Failure(msg string, outputs ...string) ProcessingResult {
	return newResult(ProcessingFailure, msg, outputs)
}

// Skipped builds a not-applicable result.
func Skipped(msg string) ProcessingResult {
	return newResult(ProcessingNotApplicable, msg, nil)
}

// Outcome pairs a child result with the error the child returned, if any.
type Outcome struct {
	Result ProcessingResult
	Err    error
}

// MessageSeparator joins child messages in combined results.
const MessageSeparator = " | "

// CombineOutcomes folds several child outcomes into one result. The combined
// result fails if any child failed or errored; NotApplicable children do not
// count as failures. Messages are joined with MessageSeparator, with a child's
// error text taking the place of its message. Output files are concatenated
// in child order.
func CombineOutcomes(outcomes []Outcome, errText func(error) string) ProcessingResult {
	failed := false
	messages := make([]string, 0, len(outcomes))
	outputs := []string{}

	for _, o := range outcomes {
		if o.Err != nil {
			failed = true
			messages = append(messages, errText(o.Err))
			continue
		}
		if o.Result.Type == ProcessingFailure {
			failed = true
		}
		messages = append(messages, o.Result.Message)
		outputs = append(outputs, o.Result.OutputFiles...)
	}

	t := ProcessingSuccess
	if failed {
		t = ProcessingFailure
	}
	return ProcessingResult{Type: t, Message: strings.Join(messages, MessageSeparator), OutputFiles: outputs}
}
