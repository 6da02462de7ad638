package codegen

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/bindgen" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the codegen driver Graft node.
const NodeID graft.ID = "engine.codegen"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{bindgen.NodeID, fs.VerifierNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Driver, error) {
			generator, err := graft.Dep[ports.BindingGenerator](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDriver(generator, verifier, log), nil
		},
	})
}
