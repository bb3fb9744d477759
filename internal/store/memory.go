package store

import (
	"context"
	"sync"

	"github.com/railcrew/worklog/internal/common"
)

// MemoryRepository is an in-memory Repository used by tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[string]Row
	order []string // registration order, oldest first
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Row)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := cloneRow(row)
	return &out, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, row *Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[row.UserID] = cloneRow(*row)
	r.order = append(r.order, row.UserID)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, row *Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[row.UserID]; !ok {
		return common.ErrNotFound
	}
	r.rows[row.UserID] = cloneRow(*row)
	return nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Row, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		result = append(result, cloneRow(r.rows[r.order[i]]))
	}
	return result, nil
}

func cloneRow(row Row) Row {
	data := make([]byte, len(row.Data))
	copy(data, row.Data)
	row.Data = data
	return row
}
