package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
)

// Set groups the repositories of every record kind.
type Set struct {
	SalesReps   Repository[SalesRep]
	Customers   Repository[Customer]
	Products    Repository[Product]
	Submissions Repository[FormSubmission]
	Orders      Repository[Order]
	Users       Repository[User]

	db       *sql.DB
	migrator []func(context.Context) error
}

// NewMemorySet returns in-memory repositories.
func NewMemorySet(opts ...Option) *Set {
	return &Set{
		SalesReps:   NewMemory[SalesRep](opts...),
		Customers:   NewMemory[Customer](opts...),
		Products:    NewMemory[Product](opts...),
		Submissions: NewMemory[FormSubmission](opts...),
		Orders:      NewMemory[Order](opts...),
		Users:       NewMemory[User](opts...),
	}
}

// NewSQLSet returns SQL repositories over db. Migrate must run before use.
func NewSQLSet(db *sql.DB, dialect Dialect, opts ...Option) *Set {
	salesReps := NewSQL[SalesRep](db, dialect, "sales_reps", opts...)
	customers := NewSQL[Customer](db, dialect, "customers", opts...)
	products := NewSQL[Product](db, dialect, "products", opts...)
	submissions := NewSQL[FormSubmission](db, dialect, "form_submissions", opts...)
	orders := NewSQL[Order](db, dialect, "orders", opts...)
	users := NewSQL[User](db, dialect, "users", opts...)
	return &Set{
		SalesReps:   salesReps,
		Customers:   customers,
		Products:    products,
		Submissions: submissions,
		Orders:      orders,
		Users:       users,
		db:          db,
		migrator: []func(context.Context) error{
			salesReps.Migrate,
			customers.Migrate,
			products.Migrate,
			submissions.Migrate,
			orders.Migrate,
			users.Migrate,
		},
	}
}

// Open builds a Set for driver ("memory", "sqlite" or "postgres") and runs
// migrations.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Set, error) {
	if strings.EqualFold(strings.TrimSpace(driver), DriverMemory) || strings.TrimSpace(driver) == "" {
		return NewMemorySet(opts...), nil
	}
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := OpenDB(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	set := NewSQLSet(db, dialect, opts...)
	if err := set.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return set, nil
}

// Migrate creates SQL tables. It is a no-op for memory sets.
func (s *Set) Migrate(ctx context.Context) error {
	for _, migrate := range s.migrator {
		if err := migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle, if any.
func (s *Set) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
