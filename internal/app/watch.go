package app

import (
	"context"
	"time"

	"go.trai.ch/stale/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/stale/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period used when WatchRequest.Debounce is zero.
const DefaultDebounce = watcher.DefaultDebounceWindow

// WatchRequest configures the Watch method.
type WatchRequest struct {
	Selection
	// Debounce is the quiet period after the last file event before re-evaluating.
	// Zero means DefaultDebounce.
	Debounce time.Duration
	// Trace logs a line per finished span.
	Trace bool
}

// Watch evaluates the selected checks, then re-evaluates them whenever their
// sources or targets change. Only verdicts that differ from the previous
// report are printed. It returns nil once ctx is cancelled.
func (a *App) Watch(ctx context.Context, req WatchRequest) error {
	if req.Trace {
		shutdown := setupOTel(a.logger)
		defer func() {
			_ = shutdown(context.WithoutCancel(ctx))
		}()
	}

	checks, err := a.resolveChecks(req.Selection)
	if err != nil {
		return err
	}

	window := req.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}

	g, gctx := errgroup.WithContext(ctx)

	roots := make([]string, 0, 2*len(checks))
	for _, check := range checks {
		roots = append(roots, check.Source, check.Target)
	}
	if err := a.watcher.Start(gctx, roots...); err != nil {
		return err
	}
	// Stopping the watcher ends its event stream.
	go func() {
		<-gctx.Done()
		_ = a.watcher.Stop()
	}()

	last := make(map[string]domain.Verdict, len(checks))
	a.evaluateChanged(gctx, checks, last)
	a.logger.Info("watching for changes", "checks", len(checks))

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		select {
		case batches <- paths:
		case <-gctx.Done():
		}
	})

	// Watcher routine
	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	// Evaluation routine
	g.Go(func() error {
		defer debouncer.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-batches:
				a.logger.Info("change detected", "paths", len(paths))
				a.evaluateChanged(gctx, checks, last)
			}
		}
	})

	return g.Wait()
}

// evaluateChanged evaluates every check and reports the verdicts that differ
// from last. Evaluation errors are logged and do not end the watch.
func (a *App) evaluateChanged(ctx context.Context, checks []domain.Check, last map[string]domain.Verdict) {
	for _, check := range checks {
		if ctx.Err() != nil {
			return
		}

		verdict, err := a.evaluate(ctx, check)
		if err != nil {
			delete(last, check.Name)
			a.logger.Error(err)
			continue
		}

		prev, seen := last[check.Name]
		last[check.Name] = verdict
		if seen && sameOutcome(prev, verdict) {
			continue
		}
		a.reporter.Report(check, verdict)
	}
}

func sameOutcome(a, b domain.Verdict) bool {
	return a.Stale == b.Stale && a.Reason == b.Reason && a.Trigger == b.Trigger
}
