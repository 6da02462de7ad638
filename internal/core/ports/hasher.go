package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// Hasher defines the interface for computing build fingerprints.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Fingerprint hashes the configure invocation together with the content of files.
	Fingerprint(inv domain.ConfigureInvocation, files []string) (string, error)
}
