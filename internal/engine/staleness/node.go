package staleness

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stale/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stale/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stale/internal/core/ports"
)

// NodeID is the unique identifier for the evaluator Graft node.
const NodeID graft.ID = "engine.staleness"

func init() {
	graft.Register(graft.Node[ports.Evaluator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.WalkerNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (ports.Evaluator, error) {
			walker, err := graft.Dep[ports.Walker](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewEvaluator(walker, log, tracer), nil
		},
	})
}
