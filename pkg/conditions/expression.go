package conditions

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Expression evaluates a CEL boolean expression over the file's metadata.
// The expression sees one variable, file, with the keys name, path, dir,
// ext, size, modified and is_dir:
//
//	file.ext == ".go" && file.size > 1024
type Expression struct {
	base
	source  string
	program cel.Program
}

func NewExpression(source string) (*Expression, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New(errors.ErrPluginOptions, "expression condition needs an expression")
	}

	env, err := cel.NewEnv(
		cel.Variable("file", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create CEL environment")
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), errors.ErrPluginOptions, "invalid expression %q", source)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginOptions, "cannot build program for %q", source)
	}
	return &Expression{base: newBase("expression"), source: source, program: program}, nil
}

func (e *Expression) Matches(ctx context.Context, file string, _ *cache.Set) (types.MatchResult, error) {
	info, err := e.stat(file)
	if err != nil {
		return types.MatchResult{}, err
	}

	activation := map[string]any{
		"file": map[string]any{
			"name":     filepath.Base(file),
			"path":     file,
			"dir":      filepath.Dir(file),
			"ext":      filepath.Ext(file),
			"size":     info.Size(),
			"modified": info.ModTime(),
			"is_dir":   info.IsDir(),
		},
	}

	out, _, err := e.program.ContextEval(ctx, activation)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.MatchResult{}, ctxErr
		}
		return types.MatchResult{}, errors.Wrapf(err, errors.ErrConditionEval, "evaluating %q", e.source)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return types.MatchResult{}, errors.Newf(errors.ErrConditionEval, "expression %q returned %T, not bool", e.source, out.Value())
	}
	if matched {
		return types.Yes(), nil
	}
	return types.No(), nil
}

func init() {
	plugins.RegisterCondition("expression", "evaluates a CEL expression over file metadata", func(o plugins.Options) (types.Condition, error) {
		var opts struct {
			Expr string `koanf:"expr"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewExpression(opts.Expr)
	})
}
