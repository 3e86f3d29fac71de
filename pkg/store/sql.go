package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a driver name.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres, "postgresql", "pq":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("store: unsupported sql dialect %q", name)
	}
}

// OpenDB opens and pings a database for dialect.
func OpenDB(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One connection so ":memory:" databases are shared across calls.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", dialect, err)
	}
	return db, nil
}

// SQL stores each record as a JSON document in its own table.
type SQL[T any, P Record[T]] struct {
	db      *sql.DB
	dialect Dialect
	table   string
	opts    options
}

var _ Repository[Order] = (*SQL[Order, *Order])(nil)

// NewSQL returns a repository over table. Call Migrate before use.
func NewSQL[T any, P Record[T]](db *sql.DB, dialect Dialect, table string, opts ...Option) *SQL[T, P] {
	return &SQL[T, P]{db: db, dialect: dialect, table: table, opts: newOptions(opts)}
}

// Migrate creates the backing table when missing.
func (s *SQL[T, P]) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	doc TEXT NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("store: migrate %s: %w", s.table, err)
	}
	return nil
}

// List returns every record ordered by creation time.
func (s *SQL[T, P]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at, id`, s.table)))
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", s.table, err)
		}
		item, err := decodeDoc[T](doc)
		if err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", s.table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.table, err)
	}
	return out, nil
}

// Get returns the record with id.
func (s *SQL[T, P]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var doc string
	err := s.db.QueryRowContext(ctx, s.rebind(fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, s.table)), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return zero, fmt.Errorf("store: get %s: %w", s.table, err)
	}
	item, err := decodeDoc[T](doc)
	if err != nil {
		return zero, fmt.Errorf("store: decode %s: %w", s.table, err)
	}
	return item, nil
}

// Add inserts item, assigning an id when empty.
func (s *SQL[T, P]) Add(ctx context.Context, item T) (T, error) {
	var zero T
	meta := P(&item).Metadata()
	s.opts.stampNew(meta)

	if _, err := s.Get(ctx, meta.ID); err == nil {
		return zero, fmt.Errorf("%w: %q", ErrConflict, meta.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return zero, err
	}

	doc, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("store: encode %s: %w", s.table, err)
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(fmt.Sprintf(`INSERT INTO %s (id, created_at, doc) VALUES (?, ?, ?)`, s.table)),
		meta.ID, meta.CreatedAt.Format(time.RFC3339Nano), string(doc))
	if err != nil {
		return zero, fmt.Errorf("store: insert %s: %w", s.table, err)
	}
	return item, nil
}

// Update replaces an existing record, keeping its CreatedAt.
func (s *SQL[T, P]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	meta := P(&item).Metadata()
	existing, err := s.Get(ctx, meta.ID)
	if err != nil {
		return zero, err
	}
	meta.CreatedAt = P(&existing).Metadata().CreatedAt
	meta.UpdatedAt = s.opts.now()

	doc, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("store: encode %s: %w", s.table, err)
	}
	if _, err := s.db.ExecContext(ctx,
		s.rebind(fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, s.table)),
		string(doc), meta.ID); err != nil {
		return zero, fmt.Errorf("store: update %s: %w", s.table, err)
	}
	return item, nil
}

// Remove deletes the record with id.
func (s *SQL[T, P]) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table)), id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", s.table, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQL[T, P]) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func decodeDoc[T any](doc string) (T, error) {
	var item T
	err := json.Unmarshal([]byte(doc), &item)
	return item, err
}
