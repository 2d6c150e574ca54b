package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

type stubCondition struct{ pattern string }

func (s *stubCondition) Init(*types.RunContext) error { return nil }
func (s *stubCondition) Cleanup() error               { return nil }
func (s *stubCondition) CacheKinds() []cache.Kind     { return nil }
func (s *stubCondition) Matches(context.Context, string, *cache.Set) (types.MatchResult, error) {
	return types.Yes(), nil
}

func TestOptionsDecode(t *testing.T) {
	type target struct {
		Pattern string        `koanf:"pattern"`
		Max     int64         `koanf:"max"`
		Every   time.Duration `koanf:"every"`
		Words   []string      `koanf:"words"`
		Loud    bool          `koanf:"loud"`
	}

	t.Run("weak_types_and_hooks", func(t *testing.T) {
		var got target
		opts := NewOptions(map[string]any{
			"pattern": "*.go",
			"max":     "42",
			"every":   "1m30s",
			"words":   "a,b",
			"loud":    "true",
		})
		require.NoError(t, opts.Decode(&got))
		assert.Equal(t, target{Pattern: "*.go", Max: 42, Every: 90 * time.Second, Words: []string{"a", "b"}, Loud: true}, got)
	})

	t.Run("unknown_key", func(t *testing.T) {
		var got target
		err := NewOptions(map[string]any{"patern": "x"}).Decode(&got)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPluginOptions))
	})

	t.Run("nil_values", func(t *testing.T) {
		var got target
		assert.NoError(t, NewOptions(nil).Decode(&got))
	})
}

func TestOptionsString(t *testing.T) {
	opts := NewOptions(map[string]any{"a": "x", "b": 3})
	assert.Equal(t, "x", opts.String("a", "d"))
	assert.Equal(t, "d", opts.String("b", "d"))
	assert.Equal(t, "d", opts.String("c", "d"))
}

func TestNewCondition(t *testing.T) {
	name := "test-stub"
	if !Conditions().Has(name) {
		RegisterCondition(name, "stub for tests", func(opts Options) (types.Condition, error) {
			return &stubCondition{pattern: opts.String("pattern", "")}, nil
		})
	}
	if !Conditions().Has("test-panics") {
		RegisterCondition("test-panics", "", func(Options) (types.Condition, error) { panic("bad factory") })
	}
	if !Conditions().Has("test-nil") {
		RegisterCondition("test-nil", "", func(Options) (types.Condition, error) {
			var c *stubCondition
			return c, nil
		})
	}

	c, err := NewCondition(name, NewOptions(map[string]any{"pattern": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "x", c.(*stubCondition).pattern)

	_, err = NewCondition("does-not-exist", NewOptions(nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginNotFound))

	_, err = NewCondition("test-panics", NewOptions(nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginPanic))

	_, err = NewCondition("test-nil", NewOptions(nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginInit))
}

func TestCachesRegistry(t *testing.T) {
	assert.True(t, Caches().Has(string(cache.KindText)))
}
