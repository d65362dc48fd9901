package ports

import "go.trai.ch/stale/internal/core/domain"

// ConfigLoader defines the interface for loading declared checks.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the config file starting at cwd and walking up, and returns its checks sorted by name.
	Load(cwd string) ([]domain.Check, error)

	// LoadFile reads the checks declared in the given config file.
	LoadFile(path string) ([]domain.Check, error)
}
