package source

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/archive" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the source materializer Graft node.
const NodeID graft.ID = "engine.source"

func init() {
	graft.Register(graft.Node[*Materializer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{archive.NodeID, fs.VerifierNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Materializer, error) {
			extractor, err := graft.Dep[ports.Extractor](ctx)
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
			return NewMaterializer(extractor, verifier, log), nil
		},
	})
}
