// Package app implements the application layer for stale.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/stale/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/stale/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	evaluator    ports.Evaluator
	reporter     ports.Reporter
	watcher      ports.Watcher
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	evaluator ports.Evaluator,
	reporter ports.Reporter,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		evaluator:    evaluator,
		reporter:     reporter,
		watcher:      watcher,
		logger:       log,
	}
}

// Selection describes which checks to evaluate.
type Selection struct {
	// Dir is the working directory. Config discovery starts here and relative
	// paths given on the command line are resolved against it. Empty means ".".
	Dir string
	// ConfigPath names an explicit config file instead of discovering stale.yaml.
	ConfigPath string
	// Names restricts config checks to the given names.
	Names []string
	// Source is the source directory of an ad-hoc check. Empty means Dir.
	Source string
	// Target selects ad-hoc mode: a single check built from Source, Target and Scan.
	Target string
	// Scan options are applied on top of every selected check's configuration.
	Scan []domain.ScanOption
}

// CheckRequest configures the Check method.
type CheckRequest struct {
	Selection
	// FailFast stops at the first stale check.
	FailFast bool
	// Trace logs a line per finished span.
	Trace bool
}

// Check evaluates the selected checks in name order and reports each verdict.
// It returns domain.ErrRebuildRequired when at least one check is stale.
func (a *App) Check(ctx context.Context, req CheckRequest) error {
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

	stale := false
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return err
		}

		verdict, err := a.evaluate(ctx, check)
		if err != nil {
			return err
		}
		a.reporter.Report(check, verdict)

		if verdict.Stale {
			stale = true
			if req.FailFast {
				break
			}
		}
	}

	if stale {
		return domain.ErrRebuildRequired
	}
	return nil
}

// Touch sets the modification time of every path to at, creating missing files.
func (a *App) Touch(_ context.Context, paths []string, at time.Time) error {
	for _, p := range paths {
		if err := fs.TouchAt(p, at); err != nil {
			return err
		}
		a.logger.Info("touched", "path", p)
	}
	return nil
}

// SetJSONLogs switches diagnostics between JSON and human-readable output.
func (a *App) SetJSONLogs(enable bool) {
	a.logger.SetJSON(enable)
}

func (a *App) evaluate(ctx context.Context, check domain.Check) (domain.Verdict, error) {
	verdict, err := a.evaluator.Inspect(ctx, check.Source, check.Target, check.Config)
	if err != nil {
		return domain.Verdict{}, zerr.With(zerr.Wrap(err, "evaluation failed"), "check", check.Name)
	}
	return verdict, nil
}

// resolveChecks builds the ad-hoc check or loads and filters the configured ones.
func (a *App) resolveChecks(sel Selection) ([]domain.Check, error) {
	dir := sel.Dir
	if dir == "" {
		dir = "."
	}

	if sel.Target != "" {
		if len(sel.Names) > 0 {
			return nil, errors.Join(domain.ErrConflictingSelection,
				zerr.With(zerr.New("remove the check names or the target"), "target", sel.Target))
		}
		source := sel.Source
		if source == "" {
			source = dir
		}
		return []domain.Check{{
			Name:   domain.AdHocCheckName,
			Source: resolvePath(dir, source),
			Target: resolvePath(dir, sel.Target),
			Config: domain.NewScanConfig(sel.Scan...),
		}}, nil
	}

	if sel.Source != "" {
		return nil, errors.Join(domain.ErrMissingCheckField,
			zerr.With(zerr.New("a source requires a target"), "field", "target"))
	}

	var checks []domain.Check
	var err error
	if sel.ConfigPath != "" {
		checks, err = a.configLoader.LoadFile(resolvePath(dir, sel.ConfigPath))
	} else {
		checks, err = a.configLoader.Load(dir)
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	checks, err = filterChecks(checks, sel.Names)
	if err != nil {
		return nil, err
	}
	if len(checks) == 0 {
		return nil, domain.ErrNoChecks
	}

	for i := range checks {
		checks[i].Config = checks[i].Config.With(sel.Scan...)
	}
	return checks, nil
}

// filterChecks keeps the named checks in their original order.
func filterChecks(checks []domain.Check, names []string) ([]domain.Check, error) {
	if len(names) == 0 {
		return checks, nil
	}

	for _, name := range names {
		if !slices.ContainsFunc(checks, func(c domain.Check) bool { return c.Name == name }) {
			return nil, errors.Join(domain.ErrCheckNotFound, zerr.With(zerr.New("unknown check"), "check", name))
		}
	}

	return slices.DeleteFunc(slices.Clone(checks), func(c domain.Check) bool {
		return !slices.Contains(names, c.Name)
	}), nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// setupOTel installs a tracer provider that logs finished spans. The returned
// function shuts the provider down.
func setupOTel(logger ports.Logger) func(context.Context) error {
	return telemetry.Install(telemetry.NewBridge(logger))
}
