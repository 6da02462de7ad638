package native

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/autotools" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the native build driver Graft node.
const NodeID graft.ID = "engine.native"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{autotools.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Driver, error) {
			toolchain, err := graft.Dep[ports.Toolchain](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDriver(toolchain, log), nil
		},
	})
}
