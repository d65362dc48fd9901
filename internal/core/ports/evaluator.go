package ports

import (
	"context"

	"go.trai.ch/stale/internal/core/domain"
)

// Evaluator decides whether a target artifact is stale relative to its sources.
//
//go:generate mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks
type Evaluator interface {
	// Evaluate reports whether any matching file under sourceDir is newer than target.
	Evaluate(ctx context.Context, sourceDir, target string, cfg domain.ScanConfig) (bool, error)
	// Inspect is Evaluate with the full verdict.
	Inspect(ctx context.Context, sourceDir, target string, cfg domain.ScanConfig) (domain.Verdict, error)
}
