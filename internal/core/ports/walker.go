// Package ports defines the interfaces between the core and its adapters.
package ports

import (
	"iter"

	"go.trai.ch/stale/internal/core/domain"
)

// Walker enumerates a file system tree under structural constraints.
//
//go:generate mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type Walker interface {
	// Walk lazily yields every entry under root. A failure for one entry is
	// yielded as a non-nil error with a nil entry; the walk then continues.
	// Stopping the iteration releases all resources held by the walk.
	Walk(root string, opts domain.WalkOptions) iter.Seq2[*domain.Entry, error]
}
