package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Toolchain runs the configure and compile steps of the native build.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Configure runs the configure script inside dir.
	Configure(ctx context.Context, dir string, inv domain.ConfigureInvocation) (domain.ProcessResult, error)
	// Make compiles the configured tree.
	Make(ctx context.Context, req domain.MakeRequest) (domain.ProcessResult, error)
}
