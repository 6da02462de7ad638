package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/cache"
	"go.trai.ch/ffbuild/internal/engine/codegen"
	"go.trai.ch/ffbuild/internal/engine/native"
	"go.trai.ch/ffbuild/internal/engine/source"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.NodeID,
			source.NodeID,
			native.NodeID,
			codegen.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			oracle, err := graft.Dep[*cache.Oracle](ctx)
			if err != nil {
				return nil, err
			}
			materializer, err := graft.Dep[*source.Materializer](ctx)
			if err != nil {
				return nil, err
			}
			nativeDriver, err := graft.Dep[*native.Driver](ctx)
			if err != nil {
				return nil, err
			}
			codegenDriver, err := graft.Dep[*codegen.Driver](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(oracle, materializer, nativeDriver, codegenDriver, tracer, log), nil
		},
	})
}
