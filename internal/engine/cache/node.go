package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/cas" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/fs"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the cache oracle Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Oracle]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.VerifierNodeID, fs.HasherNodeID, cas.NodeID},
		Run: func(ctx context.Context) (*Oracle, error) {
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewOracle(verifier, hasher, store), nil
		},
	})
}
