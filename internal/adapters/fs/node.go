package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/internal/core/ports"
)

// WalkerNodeID is the unique identifier for the walker Graft node.
const WalkerNodeID graft.ID = "adapter.fs.walker"

func init() {
	graft.Register(graft.Node[ports.Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Walker, error) {
			return NewWalker(), nil
		},
	})
}
