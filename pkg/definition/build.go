package definition

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/arthur-debert/sifter/pkg/engine"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"

	// plugin registrations
	_ "github.com/arthur-debert/sifter/pkg/conditions"
	_ "github.com/arthur-debert/sifter/pkg/fields"
	_ "github.com/arthur-debert/sifter/pkg/filesource"
	_ "github.com/arthur-debert/sifter/pkg/processors"
)

// builder collects every problem in a definition instead of stopping at the
// first one.
type builder struct {
	errs []error
}

func (b *builder) fail(at string, err error) {
	b.errs = append(b.errs, errors.Wrapf(err, errors.ErrDefinitionInvalid, "%s", at).WithDetail("at", at))
}

// Build resolves every node of def through the plugin registries. fs is
// handed to the engine; nil means the OS filesystem.
func Build(def *Definition, fs afero.Fs) (engine.Config, error) {
	b := &builder{}
	cfg := engine.Config{MaxToMatch: def.MaxToMatch, Fs: fs}

	cfg.Source = b.source(def.Source)
	if def.Condition != nil {
		cfg.Condition = b.condition("condition", *def.Condition)
	}
	for i, n := range def.Fields {
		if f := b.field(fmt.Sprintf("fields[%d]", i), n); f != nil {
			cfg.Fields = append(cfg.Fields, f)
		}
	}
	cfg.Tested = b.processors("tested", def.Tested)
	cfg.Matched = b.processors("matched", def.Matched)

	if len(b.errs) > 0 {
		return engine.Config{}, stderrors.Join(b.errs...)
	}
	return cfg, nil
}

func (b *builder) source(n Node) types.FileSource {
	if len(n.Children) > 0 || n.Input != "" {
		b.fail("source", errors.New(errors.ErrPluginOptions, "a source takes neither children nor input"))
		return nil
	}
	src, err := plugins.NewSource(n.Type, plugins.NewOptions(n.Options))
	if err != nil {
		b.fail("source", err)
		return nil
	}
	return src
}

func (b *builder) condition(at string, n Node) types.Condition {
	opts := plugins.NewOptions(n.Options)
	ok := true
	for i, child := range n.Children {
		c := b.condition(fmt.Sprintf("%s.children[%d]", at, i), child)
		if c == nil {
			ok = false
			continue
		}
		opts.Conditions = append(opts.Conditions, c)
	}
	if !ok {
		return nil
	}

	c, err := plugins.NewCondition(n.Type, opts)
	if err != nil {
		b.fail(at, err)
		return nil
	}
	return c
}

func (b *builder) field(at string, n Node) types.FieldSource {
	f, err := plugins.NewField(n.Type, plugins.NewOptions(n.Options))
	if err != nil {
		b.fail(at, err)
		return nil
	}
	return f
}

func (b *builder) processors(at string, nodes []Node) []types.Processor {
	out := make([]types.Processor, 0, len(nodes))
	for i, n := range nodes {
		if p := b.processor(fmt.Sprintf("%s[%d]", at, i), n); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) processor(at string, n Node) types.Processor {
	input, err := types.ParseInputFileSource(n.Input)
	if err != nil {
		b.fail(at, errors.Wrap(err, errors.ErrPluginOptions, "invalid input"))
		return nil
	}

	opts := plugins.NewOptions(n.Options)
	opts.Input = input
	before := len(b.errs)
	opts.Processors = b.processors(at+".children", n.Children)
	if len(b.errs) > before {
		return nil
	}

	p, err := plugins.NewProcessor(n.Type, opts)
	if err != nil {
		b.fail(at, err)
		return nil
	}
	return p
}
