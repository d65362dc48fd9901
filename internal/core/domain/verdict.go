package domain

import "time"

// Reason explains a Verdict.
type Reason string

const (
	// ReasonTargetMissing means the target artifact does not exist.
	ReasonTargetMissing Reason = "target-missing"
	// ReasonNewerSource means a matched source file is newer than the target.
	ReasonNewerSource Reason = "newer-source"
	// ReasonUpToDate means no matched source file is newer than the target.
	ReasonUpToDate Reason = "up-to-date"
)

// Verdict is the outcome of one staleness evaluation.
type Verdict struct {
	// Stale reports whether the target must be rebuilt.
	Stale bool
	// Reason explains the decision.
	Reason Reason
	// Trigger is the relative path of the first source found newer than the target.
	Trigger string
	// Baseline is the target's modification time. Zero when the target is missing.
	Baseline time.Time
	// Visited counts entries yielded by the walk.
	Visited int
	// Matched counts file entries that matched a pattern.
	Matched int
}
