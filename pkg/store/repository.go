package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when adding a record whose id already exists.
	ErrConflict = errors.New("store: record already exists")
)

// Meta carries the bookkeeping fields shared by every record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metadata exposes the embedded Meta for stamping.
func (m *Meta) Metadata() *Meta {
	return m
}

// Record is the pointer constraint satisfied by every record type embedding
// Meta.
type Record[T any] interface {
	*T
	Metadata() *Meta
}

// Repository is the CRUD surface the service layer depends on.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Add(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Remove(ctx context.Context, id string) error
}

// Option configures a repository implementation.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithNow overrides the clock used for CreatedAt/UpdatedAt.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides uuid id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Filter returns the records of repo for which keep reports true.
func Filter[T any](ctx context.Context, repo Repository[T], keep func(T) bool) ([]T, error) {
	items, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// First returns the first record matching keep or ErrNotFound.
func First[T any](ctx context.Context, repo Repository[T], keep func(T) bool) (T, error) {
	var zero T
	items, err := Filter(ctx, repo, keep)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}
