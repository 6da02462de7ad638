package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the project description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file from the given working directory, falling back to defaults.
	Load(cwd string) (domain.Project, error)
}
