package domain

import "go.trai.ch/zerr"

// Error kinds. Every evaluation failure carries exactly one of these in its
// chain, joined to the detailed cause, so callers can branch with errors.Is.
var (
	// ErrIO is returned when reading file metadata, opening a directory or
	// checking for existence fails.
	ErrIO = zerr.New("i/o failure")

	// ErrPattern is returned when a configured glob pattern is malformed.
	ErrPattern = zerr.New("invalid glob pattern")

	// ErrTraversal is returned for failures intrinsic to walking the tree.
	ErrTraversal = zerr.New("traversal failed")
)

var (
	// ErrSymlinkLoop is returned when a followed symbolic link resolves to one of its ancestors.
	ErrSymlinkLoop = zerr.New("symbolic link loop detected")

	// ErrBrokenLink is returned when a followed symbolic link has no target.
	ErrBrokenLink = zerr.New("broken symbolic link")

	// ErrCrossDeviceUnsupported is returned when the same-filesystem rule is requested
	// on a platform where device identity cannot be determined.
	ErrCrossDeviceUnsupported = zerr.New("same file system check is not supported on this platform")

	// ErrTargetStatFailed is returned when the target artifact cannot be stat'ed.
	ErrTargetStatFailed = zerr.New("failed to stat target")

	// ErrSourceStatFailed is returned when a matched source file cannot be stat'ed.
	ErrSourceStatFailed = zerr.New("failed to stat source file")

	// ErrDirReadFailed is returned when a directory cannot be opened or read.
	ErrDirReadFailed = zerr.New("failed to read directory")

	// ErrTouchFailed is returned when a file's timestamp cannot be refreshed or the file created.
	ErrTouchFailed = zerr.New("failed to touch file")
)

var (
	// ErrConfigNotFound is returned when no stale.yaml exists in the working directory or its parents.
	ErrConfigNotFound = zerr.New("could not find stale.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidCheckName is returned when a check name contains invalid characters.
	ErrInvalidCheckName = zerr.New("check name can only contain alphanumeric characters, hyphens and underscores")

	// ErrMissingCheckField is returned when a check omits its source or target.
	ErrMissingCheckField = zerr.New("check is missing a required field")

	// ErrCheckNotFound is returned when a requested check is not defined.
	ErrCheckNotFound = zerr.New("check not found")

	// ErrConflictingSelection is returned when check names are combined with an ad-hoc target.
	ErrConflictingSelection = zerr.New("check names cannot be combined with an explicit target")

	// ErrNoChecks is returned when there is nothing to evaluate.
	ErrNoChecks = zerr.New("no checks defined")

	// ErrRebuildRequired is returned by the check command when at least one artifact is stale.
	ErrRebuildRequired = zerr.New("rebuild required")
)
