package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// BindingGenerator turns C headers into foreign-function bindings.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type BindingGenerator interface {
	// Generate writes bindings for the request to outputPath. The output is only
	// replaced when the generator succeeds.
	Generate(ctx context.Context, req domain.BindingRequest, outputPath string) (domain.ProcessResult, error)
}
