// Package staleness decides whether a build artifact is older than its sources.
package staleness

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
)

// SpanName is the name of the span wrapping each evaluation.
const SpanName = "staleness.evaluate"

var _ ports.Evaluator = (*Evaluator)(nil)

// Evaluator compares the modification time of a target against the matching
// files of a source tree.
type Evaluator struct {
	walker ports.Walker
	logger ports.Logger
	tracer ports.Tracer
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(walker ports.Walker, logger ports.Logger, tracer ports.Tracer) *Evaluator {
	return &Evaluator{
		walker: walker,
		logger: logger,
		tracer: tracer,
	}
}

// Evaluate reports whether target must be rebuilt: it is missing, or a file
// under sourceDir matching the configured patterns was modified strictly
// after it.
func (e *Evaluator) Evaluate(ctx context.Context, sourceDir, target string, cfg domain.ScanConfig) (bool, error) {
	verdict, err := e.Inspect(ctx, sourceDir, target, cfg)
	if err != nil {
		return false, err
	}
	return verdict.Stale, nil
}

// Inspect is Evaluate with the full verdict.
func (e *Evaluator) Inspect(
	ctx context.Context,
	sourceDir, target string,
	cfg domain.ScanConfig,
) (verdict domain.Verdict, err error) {
	ctx, span := e.tracer.Start(ctx, SpanName)
	defer span.End()
	span.SetAttribute("source", sourceDir)
	span.SetAttribute("target", target)
	defer func() {
		if err != nil {
			span.RecordError(err)
			return
		}
		span.SetAttribute("stale", verdict.Stale)
		span.SetAttribute("reason", string(verdict.Reason))
		span.SetAttribute("visited", verdict.Visited)
		span.SetAttribute("matched", verdict.Matched)
	}()

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			if cfg.Verbose() {
				e.logger.Info("target missing", "target", target)
			}
			return domain.Verdict{Stale: true, Reason: domain.ReasonTargetMissing}, nil
		}
		return domain.Verdict{}, errors.Join(
			domain.ErrIO,
			zerr.With(zerr.Wrap(err, domain.ErrTargetStatFailed.Error()), "target", target),
		)
	}

	verdict.Baseline = info.ModTime()
	if cfg.Verbose() {
		e.logger.Info("baseline established", "target", target, "mtime", verdict.Baseline)
	}

	matches, err := Compile(cfg.Patterns())
	if err != nil {
		return domain.Verdict{}, err
	}

	for entry, walkErr := range e.walker.Walk(sourceDir, cfg.WalkOptions()) {
		if err := ctx.Err(); err != nil {
			return domain.Verdict{}, err
		}
		if walkErr != nil {
			return domain.Verdict{}, walkErr
		}
		verdict.Visited++

		if entry.IsDir() || !matches.Match(entry.RelPath) {
			continue
		}
		verdict.Matched++

		mtime, err := entry.ModTime()
		if err != nil {
			return domain.Verdict{}, errors.Join(
				domain.ErrIO,
				zerr.With(zerr.Wrap(err, domain.ErrSourceStatFailed.Error()), "path", entry.Path),
			)
		}

		if mtime.After(verdict.Baseline) {
			if cfg.Verbose() {
				e.logger.Info("changed", "path", entry.RelPath, "mtime", mtime)
			}
			verdict.Stale = true
			verdict.Reason = domain.ReasonNewerSource
			verdict.Trigger = entry.RelPath
			span.AddEvent("newer source found")
			return verdict, nil
		}
		if cfg.Verbose() {
			e.logger.Info("ok", "path", entry.RelPath)
		}
	}

	verdict.Reason = domain.ReasonUpToDate
	if cfg.Verbose() {
		e.logger.Info("up to date", "target", target, "visited", verdict.Visited, "matched", verdict.Matched)
	}
	return verdict, nil
}
