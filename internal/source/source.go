// Package source provides the display controller's view of the event data:
// a read-only snapshot of active pujas per fetch cycle. The controller does
// not care whether the snapshot comes from the local store or from a remote
// instance's API.
package source

import (
	"context"

	"pujadisplay/internal/model"
	"pujadisplay/internal/store"
)

// Source yields the current active-puja snapshot. Implementations must
// already have the isActive filter applied; inactive records never reach
// the classifier.
type Source interface {
	Snapshot(ctx context.Context) ([]model.Puja, error)
}

// storeSource reads directly from the local store.
type storeSource struct {
	st store.Store
}

// FromStore returns a Source backed by the local store.
func FromStore(st store.Store) Source {
	return &storeSource{st: st}
}

func (s *storeSource) Snapshot(ctx context.Context) ([]model.Puja, error) {
	return s.st.ListActivePujas(ctx)
}
