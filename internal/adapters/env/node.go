package env

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the policy reader Graft node.
const NodeID graft.ID = "adapter.env"

func init() {
	graft.Register(graft.Node[ports.PolicyReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PolicyReader, error) {
			return NewProcessReader(".")
		},
	})
}
