package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// PolicyReader derives the build policy from the environment captured at startup.
//
//go:generate mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type PolicyReader interface {
	// Read returns the policy. It fails when the output directory is not set.
	Read() (domain.BuildPolicy, error)
}
