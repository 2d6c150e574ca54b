package types

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/logging"
)

// RunContext is shared by every plugin taking part in one run. It is created
// when the run starts and dropped when it ends.
type RunContext struct {
	ID        string
	StartedAt time.Time

	Source     FileSource
	Condition  Condition
	Fields     []FieldSource
	Tested     []Processor
	Matched    []Processor
	MaxToMatch int
	Progress   Progress

	Fs     afero.Fs
	Logger zerolog.Logger

	mu            sync.Mutex
	stopRequested bool
}

// NewRunContext returns a context with a fresh run ID.
func NewRunContext(fs afero.Fs, logger zerolog.Logger) *RunContext {
	id := uuid.New().String()
	return &RunContext{
		ID:        id,
		StartedAt: time.Now(),
		Fs:        fs,
		Logger:    logging.ForRun(logger, id),
	}
}

// RequestStop asks the run to finish after the current file. It is safe to
// call from any goroutine.
func (rc *RunContext) RequestStop() {
	rc.mu.Lock()
	rc.stopRequested = true
	rc.mu.Unlock()
}

// StopRequested reports whether RequestStop was called.
func (rc *RunContext) StopRequested() bool {
	if rc == nil {
		return false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.stopRequested
}
