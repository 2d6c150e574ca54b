package engine

import (
	"context"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

// participant is a plugin taking part in the run's lifecycle.
type participant struct {
	role   string
	plugin types.Lifecycle
}

// lifecycle lists every plugin in Init order: source, condition, fields,
// tested processors, matched processors.
func (e *Engine) lifecycle() []participant {
	out := []participant{
		{role: "source", plugin: e.cfg.Source},
		{role: "condition", plugin: e.cfg.Condition},
	}
	for _, f := range e.cfg.Fields {
		out = append(out, participant{role: "field", plugin: f})
	}
	for _, p := range e.cfg.Tested {
		out = append(out, participant{role: "tested processor", plugin: p})
	}
	for _, p := range e.cfg.Matched {
		out = append(out, participant{role: "matched processor", plugin: p})
	}
	return out
}

// initialize calls Init on each participant in order and returns the ones
// that need Cleanup. It stops at the first failure; the failing participant
// is included since a composite may have initialized some of its children.
func (e *Engine) initialize(ctx context.Context, rc *types.RunContext, all []participant) ([]participant, error) {
	for i, p := range all {
		if err := ctx.Err(); err != nil {
			return all[:i], err
		}
		err := errors.Guard(func() error { return p.plugin.Init(rc) })
		if err == nil {
			continue
		}
		if errors.IsCanceled(err) {
			return all[:i+1], err
		}
		return all[:i+1], errors.Wrapf(err, errors.ErrPluginInit, "cannot initialize %s %s", p.role, types.NameOf(p.plugin)).
			WithDetail("role", p.role)
	}
	return all, nil
}

// cleanup calls Cleanup on every participant, whatever happened before.
func (e *Engine) cleanup(all []participant, reportErr func(error, string)) {
	for _, p := range all {
		if err := errors.Guard(p.plugin.Cleanup); err != nil {
			reportErr(errors.Wrapf(err, errors.ErrPluginCleanup, "cannot clean up %s %s", p.role, types.NameOf(p.plugin)), "")
		}
	}
}
