package ports

import "go.trai.ch/atlas/internal/core/domain"

// ConfigLoader defines the interface for loading the atlas configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds atlas.yaml by walking up from cwd and returns the normalized configuration.
	Load(cwd string) (*domain.Configuration, error)

	// DiscoverRoot walks up from cwd to find the directory containing atlas.yaml.
	DiscoverRoot(cwd string) (string, error)
}
