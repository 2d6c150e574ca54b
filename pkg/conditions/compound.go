package conditions

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

type compound struct {
	children []types.Condition
}

// Init initializes every child, even after one fails.
func (c *compound) Init(rc *types.RunContext) error {
	var errs []error
	for _, child := range c.children {
		if err := errors.Guard(func() error { return child.Init(rc) }); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrPluginInit, "condition %s", types.NameOf(child)))
		}
	}
	return stderrors.Join(errs...)
}

func (c *compound) Cleanup() error {
	var errs []error
	for _, child := range c.children {
		if err := errors.Guard(child.Cleanup); err != nil {
			errs = append(errs, errors.Wrapf(err, errors.ErrPluginCleanup, "condition %s", types.NameOf(child)))
		}
	}
	return stderrors.Join(errs...)
}

func (c *compound) CacheKinds() []cache.Kind {
	lists := make([][]cache.Kind, 0, len(c.children))
	for _, child := range c.children {
		lists = append(lists, child.CacheKinds())
	}
	return cache.UnionKinds(lists...)
}

// evaluate runs every child. It only stops early on cancellation; other child
// errors are collected and returned once all children ran.
func (c *compound) evaluate(ctx context.Context, file string, caches *cache.Set) ([]types.MatchResult, error) {
	results := make([]types.MatchResult, 0, len(c.children))
	var errs []error
	for _, child := range c.children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var r types.MatchResult
		err := errors.Guard(func() error {
			var merr error
			r, merr = child.Matches(ctx, file, caches)
			return merr
		})
		if err != nil {
			if errors.IsCanceled(err) {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		results = append(results, r)
	}
	return results, stderrors.Join(errs...)
}

// All matches when every child matches. Values of all children are
// concatenated in child order.
type All struct{ compound }

func NewAll(children ...types.Condition) *All {
	return &All{compound{children: children}}
}

func (a *All) Name() string { return "all" }

func (a *All) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	results, err := a.evaluate(ctx, file, caches)
	if err != nil {
		return types.MatchResult{}, err
	}
	values := []string{}
	matched := true
	for _, r := range results {
		values = append(values, r.Values...)
		if r.Type != types.MatchYes {
			matched = false
		}
	}
	if matched {
		return types.Yes(values...), nil
	}
	return types.No(values...), nil
}

// Any matches when at least one child matches.
type Any struct{ compound }

func NewAny(children ...types.Condition) *Any {
	return &Any{compound{children: children}}
}

func (a *Any) Name() string { return "any" }

func (a *Any) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	results, err := a.evaluate(ctx, file, caches)
	if err != nil {
		return types.MatchResult{}, err
	}
	values := []string{}
	matched := false
	for _, r := range results {
		values = append(values, r.Values...)
		if r.Type == types.MatchYes {
			matched = true
		}
	}
	if matched {
		return types.Yes(values...), nil
	}
	return types.No(values...), nil
}

// Not swaps Yes and No. NotApplicable stays NotApplicable.
type Not struct{ compound }

func NewNot(child types.Condition) *Not {
	return &Not{compound{children: []types.Condition{child}}}
}

func (n *Not) Name() string { return "not" }

func (n *Not) Matches(ctx context.Context, file string, caches *cache.Set) (types.MatchResult, error) {
	results, err := n.evaluate(ctx, file, caches)
	if err != nil {
		return types.MatchResult{}, err
	}
	r := results[0]
	switch r.Type {
	case types.MatchYes:
		return types.No(r.Values...), nil
	case types.MatchNo:
		return types.Yes(r.Values...), nil
	default:
		return types.NotApplicable(r.Values...), nil
	}
}

// Everything matches every file. It is the default condition.
type Everything struct{ base }

func NewEverything() *Everything {
	return &Everything{newBase("everything")}
}

func (e *Everything) Matches(context.Context, string, *cache.Set) (types.MatchResult, error) {
	return types.Yes(), nil
}

func init() {
	plugins.RegisterCondition("all", "matches when every child condition matches", func(o plugins.Options) (types.Condition, error) {
		return NewAll(o.Conditions...), nil
	})
	plugins.RegisterCondition("any", "matches when at least one child condition matches", func(o plugins.Options) (types.Condition, error) {
		return NewAny(o.Conditions...), nil
	})
	plugins.RegisterCondition("not", "inverts its single child condition", func(o plugins.Options) (types.Condition, error) {
		if len(o.Conditions) != 1 {
			return nil, errors.Newf(errors.ErrPluginOptions, "not takes exactly one child, got %d", len(o.Conditions))
		}
		return NewNot(o.Conditions[0]), nil
	})
	plugins.RegisterCondition("everything", "matches every file", func(plugins.Options) (types.Condition, error) {
		return NewEverything(), nil
	})
}
