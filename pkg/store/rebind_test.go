package store

import "testing"

func TestRebindPostgres(t *testing.T) {
	repo := NewSQL[Order](nil, DialectPostgres, "orders")
	got := repo.rebind("UPDATE orders SET doc = ? WHERE id = ?")
	if want := "UPDATE orders SET doc = $1 WHERE id = $2"; got != want {
		t.Fatalf("rebind: want %q, got %q", want, got)
	}

	sqlite := NewSQL[Order](nil, DialectSQLite, "orders")
	if got := sqlite.rebind("SELECT ?"); got != "SELECT ?" {
		t.Fatalf("sqlite must keep ? placeholders, got %q", got)
	}
}
