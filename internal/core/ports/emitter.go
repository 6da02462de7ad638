package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// LinkEmitter delivers the link plan to the consuming build.
//
//go:generate mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks
type LinkEmitter interface {
	Emit(plan domain.LinkPlan) error
}
