package store

import (
	"context"
	"errors"
	"fmt"
)

// SampleSalesReps are loaded into empty sales rep repositories.
func SampleSalesReps() []SalesRep {
	return []SalesRep{
		{Name: "Jordan Ellis", Email: "jordan.ellis@example.com", Phone: "555-0101", Territory: "Northeast", Active: true},
		{Name: "Priya Raman", Email: "priya.raman@example.com", Phone: "555-0102", Territory: "Southwest", Active: true},
		{Name: "Marcus Hale", Email: "marcus.hale@example.com", Phone: "555-0103", Territory: "Midwest", Active: false},
	}
}

// SampleProducts are loaded into empty product repositories.
func SampleProducts() []Product {
	return []Product{
		{SKU: "ACZ-CM-2X2", Name: "Collagen Matrix 2x2", Manufacturer: "acz", Category: "skin-substitute", PriceCents: 45000},
		{SKU: "ACZ-CM-4X4", Name: "Collagen Matrix 4x4", Manufacturer: "acz", Category: "skin-substitute", PriceCents: 120000},
		{SKU: "LEG-AM-2X3", Name: "Amniotic Membrane 2x3", Manufacturer: "legacy", Category: "skin-substitute", PriceCents: 98000},
		{SKU: "EXT-FD-10", Name: "Foam Dressing (10 pack)", Manufacturer: "extremity", Category: "dressing", PriceCents: 3500},
	}
}

// Seed fills empty repositories with the sample sales reps and products and
// ensures admin exists. Populated repositories are left alone.
func Seed(ctx context.Context, set *Set, admin User) error {
	if err := seedIfEmpty(ctx, set.SalesReps, SampleSalesReps()); err != nil {
		return fmt.Errorf("store: seed sales reps: %w", err)
	}
	if err := seedIfEmpty(ctx, set.Products, SampleProducts()); err != nil {
		return fmt.Errorf("store: seed products: %w", err)
	}
	if admin.Email == "" {
		return nil
	}
	_, err := First(ctx, set.Users, func(u User) bool { return u.Email == admin.Email })
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("store: seed admin: %w", err)
	}
	if _, err := set.Users.Add(ctx, admin); err != nil {
		return fmt.Errorf("store: seed admin: %w", err)
	}
	return nil
}

func seedIfEmpty[T any](ctx context.Context, repo Repository[T], items []T) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, item := range items {
		if _, err := repo.Add(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
