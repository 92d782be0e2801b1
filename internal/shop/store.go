package shop

import "context"

// SnapshotStore persists the two collections as whole-document snapshots.
// Save always writes the full, current state of both together; there are no
// incremental writes. A missing document loads as its empty form.
type SnapshotStore interface {
	Load(ctx context.Context) ([]Product, map[string][]CartItem, error)
	Save(ctx context.Context, products []Product, carts map[string][]CartItem) error
	Ping(ctx context.Context) error
}
