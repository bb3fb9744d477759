// Package store is the backing-store boundary: accounts keyed by worker id,
// each holding an opaque JSON blob and a role. The sync gateway treats any
// transport failure from this boundary as "absent"/no-op; implementations
// only report what happened.
package store

import "context"

// Row is one persisted account.
type Row struct {
	UserID string
	Data   []byte // JSON account blob, opaque to the store
	Role   string
}

// Repository describes the persistence operations for account rows.
type Repository interface {
	// Get returns the row for userID, or common.ErrNotFound.
	Get(ctx context.Context, userID string) (*Row, error)

	// Insert creates a new row.
	Insert(ctx context.Context, row *Row) error

	// Update overwrites an existing row; common.ErrNotFound when no row
	// exists to update.
	Update(ctx context.Context, row *Row) error

	// ListAll returns every row ordered by registration recency, newest
	// first.
	ListAll(ctx context.Context) ([]Row, error)
}
