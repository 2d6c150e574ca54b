package conditions

import (
	"context"
	"time"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Modified matches on modification time. Bounds are RFC3339 timestamps or
// durations ("72h") counted back from the start of the run.
type Modified struct {
	base
	afterSpec, beforeSpec string
	after, before         time.Time
}

func NewModified(after, before string) (*Modified, error) {
	m := &Modified{base: newBase("modified"), afterSpec: after, beforeSpec: before}
	// validate now so bad definitions fail before the run starts
	if _, err := resolveTime(after, time.Now()); err != nil {
		return nil, err
	}
	if _, err := resolveTime(before, time.Now()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Modified) Init(rc *types.RunContext) error {
	if err := m.base.Init(rc); err != nil {
		return err
	}
	now := time.Now()
	if rc != nil && !rc.StartedAt.IsZero() {
		now = rc.StartedAt
	}
	m.after, _ = resolveTime(m.afterSpec, now)
	m.before, _ = resolveTime(m.beforeSpec, now)
	return nil
}

func (m *Modified) Matches(_ context.Context, file string, _ *cache.Set) (types.MatchResult, error) {
	info, err := m.stat(file)
	if err != nil {
		return types.MatchResult{}, err
	}

	mod := info.ModTime()
	value := mod.UTC().Format(time.RFC3339)
	if !m.after.IsZero() && !mod.After(m.after) {
		return types.No(value), nil
	}
	if !m.before.IsZero() && !mod.Before(m.before) {
		return types.No(value), nil
	}
	return types.Yes(value), nil
}

func resolveTime(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return time.Time{}, errors.Newf(errors.ErrPluginOptions, "%q is neither an RFC3339 time nor a duration", raw)
	}
	return now.Add(-d), nil
}

func init() {
	plugins.RegisterCondition("modified", "matches files modified after and/or before a point in time", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			After  string `koanf:"after"`
			Before string `koanf:"before"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewModified(opts.After, opts.Before)
	})
}
