package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a mutex-guarded in-process repository. Records are returned in
// insertion order.
type Memory[T any, P Record[T]] struct {
	mu    sync.RWMutex
	opts  options
	items map[string]T
	order []string
}

var _ Repository[SalesRep] = (*Memory[SalesRep, *SalesRep])(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory[T any, P Record[T]](opts ...Option) *Memory[T, P] {
	return &Memory[T, P]{
		opts:  newOptions(opts),
		items: make(map[string]T),
	}
}

// List returns every record.
func (m *Memory[T, P]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

// Get returns the record with id.
func (m *Memory[T, P]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return item, nil
}

// Add stores item, assigning an id when empty.
func (m *Memory[T, P]) Add(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	meta := P(&item).Metadata()
	m.opts.stampNew(meta)
	if _, exists := m.items[meta.ID]; exists {
		return zero, fmt.Errorf("%w: %q", ErrConflict, meta.ID)
	}
	m.items[meta.ID] = item
	m.order = append(m.order, meta.ID)
	return item, nil
}

// Update replaces an existing record, keeping its CreatedAt.
func (m *Memory[T, P]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	meta := P(&item).Metadata()
	existing, ok := m.items[meta.ID]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, meta.ID)
	}
	meta.CreatedAt = P(&existing).Metadata().CreatedAt
	meta.UpdatedAt = m.opts.now()
	m.items[meta.ID] = item
	return item, nil
}

// Remove deletes the record with id.
func (m *Memory[T, P]) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(m.items, id)
	for i, candidate := range m.order {
		if candidate == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
