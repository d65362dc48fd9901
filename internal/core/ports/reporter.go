package ports

import "go.trai.ch/stale/internal/core/domain"

// Reporter presents verdicts to the user.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Report prints the verdict for a check.
	Report(check domain.Check, verdict domain.Verdict)
}
