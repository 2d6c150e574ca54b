package testutil

import (
	"context"
	"iter"
	"sync"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Recorder is an ordered log of calls shared by several mocks.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends an entry.
func (r *Recorder) Record(entry string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.calls = append(r.calls, entry)
	r.mu.Unlock()
}

// Calls returns a copy of every entry so far.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many times entry was recorded.
func (r *Recorder) Count(entry string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == entry {
			n++
		}
	}
	return n
}

// MockCondition is a mock implementation of types.Condition.
type MockCondition struct {
	ID          string
	Rec         *Recorder
	Kinds       []cache.Kind
	InitFunc    func(rc *types.RunContext) error
	MatchesFunc func(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error)
	CleanupFunc func() error
}

func (m *MockCondition) Name() string { return name(m.ID, "mock-condition") }

func (m *MockCondition) Init(rc *types.RunContext) error {
	m.Rec.Record("init:" + m.Name())
	if m.InitFunc != nil {
		return m.InitFunc(rc)
	}
	return nil
}

func (m *MockCondition) CacheKinds() []cache.Kind { return m.Kinds }

func (m *MockCondition) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	m.Rec.Record("matches:" + m.Name() + ":" + file)
	if m.MatchesFunc != nil {
		return m.MatchesFunc(ctx, file, caches)
	}
	return types.Yes(), nil
}

func (m *MockCondition) Cleanup() error {
	m.Rec.Record("cleanup:" + m.Name())
	if m.CleanupFunc != nil {
		return m.CleanupFunc()
	}
	return nil
}

// MockField is a mock implementation of types.FieldSource.
type MockField struct {
	ID          string
	Rec         *Recorder
	Kinds       []cache.Kind
	InitFunc    func(rc *types.RunContext) error
	ValuesFunc  func(ctx context.Context, file string, caches *cache.Set) ([]string, error)
	CleanupFunc func() error
}

func (m *MockField) Name() string { return name(m.ID, "mock-field") }

func (m *MockField) Init(rc *types.RunContext) error {
	m.Rec.Record("init:" + m.Name())
	if m.InitFunc != nil {
		return m.InitFunc(rc)
	}
	return nil
}

func (m *MockField) CacheKinds() []cache.Kind { return m.Kinds }

func (m *MockField) Values(ctx context.Context, file string, caches *cache.Set) ([]string, error) {
	m.Rec.Record("values:" + m.Name() + ":" + file)
	if m.ValuesFunc != nil {
		return m.ValuesFunc(ctx, file, caches)
	}
	return []string{}, nil
}

func (m *MockField) Cleanup() error {
	m.Rec.Record("cleanup:" + m.Name())
	if m.CleanupFunc != nil {
		return m.CleanupFunc()
	}
	return nil
}

// MockProcessor is a mock implementation of types.Processor. Inputs keeps
// every ProcessInput it received.
type MockProcessor struct {
	ID             string
	Rec            *Recorder
	Source         types.InputFileSource
	Produces       types.ProducesFiles
	InitFunc       func(rc *types.RunContext) error
	ProcessFunc    func(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error)
	AggregatedFunc func(ctx context.Context) error
	CleanupFunc    func() error

	mu     sync.Mutex
	Inputs []types.ProcessInput
}

func (m *MockProcessor) Name() string { return name(m.ID, "mock-processor") }

func (m *MockProcessor) Init(rc *types.RunContext) error {
	m.Rec.Record("init:" + m.Name())
	if m.InitFunc != nil {
		return m.InitFunc(rc)
	}
	return nil
}

func (m *MockProcessor) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	m.Rec.Record("process:" + m.Name() + ":" + in.OriginalFile)
	m.mu.Lock()
	m.Inputs = append(m.Inputs, in)
	m.mu.Unlock()
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, in)
	}
	return types.Success(m.Name()), nil
}

func (m *MockProcessor) ProcessAggregated(ctx context.Context) error {
	m.Rec.Record("aggregate:" + m.Name())
	if m.AggregatedFunc != nil {
		return m.AggregatedFunc(ctx)
	}
	return nil
}

func (m *MockProcessor) InputSource() types.InputFileSource { return m.Source }
func (m *MockProcessor) ProducesFiles() types.ProducesFiles  { return m.Produces }

func (m *MockProcessor) Cleanup() error {
	m.Rec.Record("cleanup:" + m.Name())
	if m.CleanupFunc != nil {
		return m.CleanupFunc()
	}
	return nil
}

// Received returns a copy of the inputs seen so far.
func (m *MockProcessor) Received() []types.ProcessInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.ProcessInput(nil), m.Inputs...)
}

// MockSource is a mock implementation of types.FileSource yielding Paths in
// order. BeforeYield runs before each path is handed out.
type MockSource struct {
	ID          string
	Rec         *Recorder
	Paths       []string
	Err         error
	InitFunc    func(rc *types.RunContext) error
	BeforeYield func(i int, path string)
	CleanupFunc func() error
}

func (m *MockSource) Name() string { return name(m.ID, "mock-source") }

func (m *MockSource) Init(rc *types.RunContext) error {
	m.Rec.Record("init:" + m.Name())
	if m.InitFunc != nil {
		return m.InitFunc(rc)
	}
	return nil
}

func (m *MockSource) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i, p := range m.Paths {
			if m.BeforeYield != nil {
				m.BeforeYield(i, p)
			}
			m.Rec.Record("yield:" + p)
			if !yield(p, nil) {
				return
			}
		}
		if m.Err != nil {
			yield("", m.Err)
		}
	}
}

func (m *MockSource) Cleanup() error {
	m.Rec.Record("cleanup:" + m.Name())
	if m.CleanupFunc != nil {
		return m.CleanupFunc()
	}
	return nil
}

func name(id, def string) string {
	if id != "" {
		return id
	}
	return def
}
