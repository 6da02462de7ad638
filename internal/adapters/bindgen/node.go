package bindgen

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/logger"
	"go.trai.ch/ffbuild/internal/adapters/shell"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the binding generator Graft node.
const NodeID graft.ID = "adapter.bindgen"

func init() {
	graft.Register(graft.Node[ports.BindingGenerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.BindingGenerator, error) {
			exec, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewGenerator(exec, log), nil
		},
	})
}
