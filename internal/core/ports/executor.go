package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Executor runs external processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts the command and waits for it. A non-zero exit is reported through the
	// result; the error is only set when the process could not be run at all.
	Run(ctx context.Context, cmd domain.Command) (domain.ProcessResult, error)
}
