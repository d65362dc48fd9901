package domain

import "slices"

const (
	// DefaultPattern matches every file below the source root.
	DefaultPattern = "**/*"

	// DefaultMaxOpenHandles is the number of directory handles a walk keeps open
	// when no ceiling is configured.
	DefaultMaxOpenHandles = 10
)

// ScanConfig is the per-evaluation configuration. It is a value type: once built
// it cannot be changed, and callers needing different settings build a new one.
type ScanConfig struct {
	patterns        []string
	verbose         bool
	followLinks     bool
	followRootLinks bool
	maxDepth        int
	hasMaxDepth     bool
	maxOpenHandles  int
	sameFileSystem  bool
}

// ScanOption configures a ScanConfig.
type ScanOption func(*ScanConfig)

// NewScanConfig builds a ScanConfig from the defaults and the given options.
func NewScanConfig(opts ...ScanOption) ScanConfig {
	cfg := ScanConfig{
		patterns:        []string{DefaultPattern},
		followRootLinks: true,
		maxOpenHandles:  DefaultMaxOpenHandles,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// With returns a copy of c with opts applied on top.
func (c ScanConfig) With(opts ...ScanOption) ScanConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithPatterns sets the glob patterns a source file must match. An empty list
// restores the default pattern.
func WithPatterns(patterns ...string) ScanOption {
	return func(c *ScanConfig) {
		if len(patterns) == 0 {
			c.patterns = []string{DefaultPattern}
			return
		}
		c.patterns = slices.Clone(patterns)
	}
}

// WithVerbose enables progress diagnostics.
func WithVerbose(enable bool) ScanOption {
	return func(c *ScanConfig) { c.verbose = enable }
}

// WithFollowLinks makes the walk resolve symbolic links below the root.
func WithFollowLinks(enable bool) ScanOption {
	return func(c *ScanConfig) { c.followLinks = enable }
}

// WithFollowRootLinks controls whether a symbolic link at the root is resolved.
func WithFollowRootLinks(enable bool) ScanOption {
	return func(c *ScanConfig) { c.followRootLinks = enable }
}

// WithMaxDepth bounds the number of directory levels below the root.
// Negative values are treated as 0.
func WithMaxDepth(depth int) ScanOption {
	return func(c *ScanConfig) {
		c.maxDepth = max(depth, 0)
		c.hasMaxDepth = true
	}
}

// WithMaxOpenHandles sets the ceiling on simultaneously open directory handles.
// Values below 1 are treated as 1.
func WithMaxOpenHandles(n int) ScanOption {
	return func(c *ScanConfig) { c.maxOpenHandles = max(n, 1) }
}

// WithSameFileSystem stops the walk from descending into other file systems.
func WithSameFileSystem(enable bool) ScanOption {
	return func(c *ScanConfig) { c.sameFileSystem = enable }
}

// Patterns returns a copy of the configured glob patterns.
func (c ScanConfig) Patterns() []string {
	if len(c.patterns) == 0 {
		return []string{DefaultPattern}
	}
	return slices.Clone(c.patterns)
}

// Verbose reports whether progress diagnostics are enabled.
func (c ScanConfig) Verbose() bool { return c.verbose }

// FollowLinks reports whether symbolic links below the root are resolved.
func (c ScanConfig) FollowLinks() bool { return c.followLinks }

// FollowRootLinks reports whether a symbolic link at the root is resolved.
func (c ScanConfig) FollowRootLinks() bool { return c.followRootLinks }

// MaxDepth returns the depth limit and whether one is set.
func (c ScanConfig) MaxDepth() (int, bool) { return c.maxDepth, c.hasMaxDepth }

// MaxOpenHandles returns the directory handle ceiling.
func (c ScanConfig) MaxOpenHandles() int {
	if c.maxOpenHandles < 1 {
		return DefaultMaxOpenHandles
	}
	return c.maxOpenHandles
}

// SameFileSystem reports whether the walk must stay on the root's device.
func (c ScanConfig) SameFileSystem() bool { return c.sameFileSystem }

// WalkOptions projects the structural part of the configuration.
func (c ScanConfig) WalkOptions() WalkOptions {
	return WalkOptions{
		FollowLinks:     c.followLinks,
		FollowRootLinks: c.followRootLinks,
		LimitDepth:      c.hasMaxDepth,
		MaxDepth:        c.maxDepth,
		MaxOpenHandles:  c.MaxOpenHandles(),
		SameFileSystem:  c.sameFileSystem,
	}
}

// WalkOptions are the structural constraints of a traversal.
type WalkOptions struct {
	// FollowLinks resolves symbolic links below the root.
	FollowLinks bool
	// FollowRootLinks resolves a symbolic link at the root.
	FollowRootLinks bool
	// LimitDepth enables MaxDepth.
	LimitDepth bool
	// MaxDepth bounds the depth of yielded entries; the root is depth 0.
	MaxDepth int
	// MaxOpenHandles caps open directory handles. Values below 1 mean 1.
	MaxOpenHandles int
	// SameFileSystem refuses to descend into directories on another device.
	SameFileSystem bool
}
