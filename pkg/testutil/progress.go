package testutil

import (
	"sync"

	"github.com/arthur-debert/sifter/pkg/types"
)

// Event is one progress callback as seen by RecordingProgress.
type Event struct {
	File   string
	Type   types.MatchType
	Values []string
}

// RecordingProgress collects every progress event of a run.
type RecordingProgress struct {
	mu        sync.Mutex
	Tested    []Event
	Matched   []Event
	Errors    []error
	ErrFiles  []string
	Completed []bool
}

// Sinks returns a types.Progress feeding this recorder.
func (r *RecordingProgress) Sinks() types.Progress {
	return types.Progress{
		OnTested: func(file string, result types.MatchType, values []string) {
			r.mu.Lock()
			r.Tested = append(r.Tested, Event{File: file, Type: result, Values: values})
			r.mu.Unlock()
		},
		OnMatched: func(file string, result types.MatchType, values []string) {
			r.mu.Lock()
			r.Matched = append(r.Matched, Event{File: file, Type: result, Values: values})
			r.mu.Unlock()
		},
		OnError: func(err error, file string) {
			r.mu.Lock()
			r.Errors = append(r.Errors, err)
			r.ErrFiles = append(r.ErrFiles, file)
			r.mu.Unlock()
		},
		OnComplete: func(success bool) {
			r.mu.Lock()
			r.Completed = append(r.Completed, success)
			r.mu.Unlock()
		},
	}
}

// TestedFiles returns the files reported as tested, in order.
func (r *RecordingProgress) TestedFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return files(r.Tested)
}

// MatchedFiles returns the files reported as matched, in order.
func (r *RecordingProgress) MatchedFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return files(r.Matched)
}

func files(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.File)
	}
	return out
}
