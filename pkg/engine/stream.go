package engine

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/types"
)

// stream pulls files one at a time until the source is exhausted, a stop is
// requested or MaxToMatch is reached. It only returns cancellation errors.
func (e *Engine) stream(ctx context.Context, rc *types.RunContext, progress types.Progress, reportErr func(error, string)) error {
	matched := 0
	for file, err := range e.cfg.Source.Files(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if errors.IsCanceled(err) {
				return err
			}
			reportErr(errors.Wrap(err, errors.ErrSourceWalk, "file source failed"), file)
			continue
		}

		isMatch, err := e.processFile(ctx, file, progress, reportErr)
		if err != nil {
			return err
		}
		if isMatch {
			matched++
		}

		if rc.StopRequested() {
			rc.Logger.Info().Str("file", file).Msg("stop requested")
			break
		}
		if e.cfg.MaxToMatch > 0 && matched >= e.cfg.MaxToMatch {
			rc.Logger.Info().Int("max", e.cfg.MaxToMatch).Msg("match limit reached")
			break
		}
	}
	return ctx.Err()
}

// processFile runs one file through the condition, the field sources and
// both pipelines. Failures are reported and swallowed; only cancellation is
// returned.
func (e *Engine) processFile(ctx context.Context, file string, progress types.Progress, reportErr func(error, string)) (bool, error) {
	ctx, span := e.tracer.Start(ctx, "sifter.file", trace.WithAttributes(attribute.String("sifter.file", file)))
	defer span.End()

	if _, err := e.cfg.Fs.Stat(file); err != nil {
		if !os.IsNotExist(err) {
			reportErr(errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", file), file)
		}
		e.count(func(s *Stats) { s.Skipped++ })
		return false, nil
	}

	match, values, ok, err := e.evaluate(ctx, file, reportErr)
	if err != nil {
		return false, err
	}
	if !ok {
		e.count(func(s *Stats) { s.Skipped++ })
		return false, nil
	}
	span.SetAttributes(attribute.String("sifter.match", match.Type.String()))

	e.count(func(s *Stats) { s.Tested++ })
	progress.Tested(file, match.Type, values)
	if _, err := e.tested.Run(ctx, file, match, values, reportErr); err != nil {
		return false, err
	}

	if !match.IsMatch() {
		return false, nil
	}
	e.count(func(s *Stats) { s.Matched++ })
	progress.Matched(file, match.Type, values)
	if _, err := e.matched.Run(ctx, file, match, values, reportErr); err != nil {
		return true, err
	}
	return true, nil
}

// evaluate builds the file's caches, runs the condition and the field
// sources, and disposes the caches before returning. ok is false when the
// condition produced no result.
func (e *Engine) evaluate(ctx context.Context, file string, reportErr func(error, string)) (types.MatchResult, []string, bool, error) {
	caches := cache.Build(e.cfg.Fs, file, e.kinds, e.cfg.Caches, func(kind cache.Kind, err error) {
		reportErr(err, file)
	})
	defer func() {
		if err := caches.Close(); err != nil {
			reportErr(errors.Wrapf(err, errors.ErrCacheLoad, "cannot dispose caches for %s", file), file)
		}
	}()

	if err := ctx.Err(); err != nil {
		return types.MatchResult{}, nil, false, err
	}

	var match types.MatchResult
	err := errors.Guard(func() error {
		var merr error
		match, merr = e.cfg.Condition.Matches(ctx, file, caches)
		return merr
	})
	if errors.IsCanceled(err) {
		return types.MatchResult{}, nil, false, err
	}
	if err != nil {
		reportErr(errors.Wrapf(err, errors.ErrConditionEval, "condition %s", types.NameOf(e.cfg.Condition)), file)
		return types.MatchResult{}, nil, false, nil
	}

	values := make([]string, 0, len(match.Values))
	values = append(values, match.Values...)
	for _, field := range e.cfg.Fields {
		if err := ctx.Err(); err != nil {
			return types.MatchResult{}, nil, false, err
		}
		var got []string
		err := errors.Guard(func() error {
			var ferr error
			got, ferr = field.Values(ctx, file, caches)
			return ferr
		})
		if errors.IsCanceled(err) {
			return types.MatchResult{}, nil, false, err
		}
		if err != nil {
			reportErr(errors.Wrapf(err, errors.ErrFieldEval, "field %s", types.NameOf(field)), file)
			continue
		}
		values = append(values, got...)
	}
	return match, values, true, nil
}
