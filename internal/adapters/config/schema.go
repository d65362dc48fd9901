package config

// Stalefile represents the structure of the stale.yaml configuration file.
type Stalefile struct {
	Version  string               `yaml:"version"`
	Root     string               `yaml:"root"`
	Defaults ScanDTO              `yaml:"defaults"`
	Checks   map[string]*CheckDTO `yaml:"checks"`
}

// CheckDTO represents a check definition in the configuration.
type CheckDTO struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	ScanDTO `yaml:",inline"`
}

// ScanDTO holds the traversal settings shared by defaults and checks.
// Unset fields are nil so a check only overrides what it names.
type ScanDTO struct {
	Patterns        []string `yaml:"patterns"`
	Verbose         *bool    `yaml:"verbose"`
	FollowLinks     *bool    `yaml:"follow_links"`
	FollowRootLinks *bool    `yaml:"follow_root_links"`
	MaxDepth        *int     `yaml:"max_depth"`
	MaxOpenHandles  *int     `yaml:"max_open_handles"`
	SameFileSystem  *bool    `yaml:"same_file_system"`
}

// merge returns s with every field set in override replaced.
func (s ScanDTO) merge(override ScanDTO) ScanDTO {
	if len(override.Patterns) > 0 {
		s.Patterns = override.Patterns
	}
	if override.Verbose != nil {
		s.Verbose = override.Verbose
	}
	if override.FollowLinks != nil {
		s.FollowLinks = override.FollowLinks
	}
	if override.FollowRootLinks != nil {
		s.FollowRootLinks = override.FollowRootLinks
	}
	if override.MaxDepth != nil {
		s.MaxDepth = override.MaxDepth
	}
	if override.MaxOpenHandles != nil {
		s.MaxOpenHandles = override.MaxOpenHandles
	}
	if override.SameFileSystem != nil {
		s.SameFileSystem = override.SameFileSystem
	}
	return s
}
