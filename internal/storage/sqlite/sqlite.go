package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// ensure sqliteStore implements storage.LeadStore
var _ storage.LeadStore = (*sqliteStore)(nil)

type sqliteStore struct {
	db *sql.DB
}

// created_at holds unix nanoseconds so ordering is exact.
const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	client TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	link TEXT NOT NULL UNIQUE,
	snippet TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	has_tech_footprint BOOLEAN NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS leads_created_at ON leads (created_at);
`

// New opens (creating if needed) a SQLite-backed storage.LeadStore at dsn.
func New(dsn string) (storage.LeadStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) ExistsByLink(ctx context.Context, link string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM leads WHERE link = ?`, link).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: exists: %w", err)
	}
	return n > 0, nil
}

func (s *sqliteStore) Create(ctx context.Context, rec *lead.Record) error {
	query := `
	INSERT OR IGNORE INTO leads (
		id, client, category, city, country, title, link, snippet, email, phone, has_tech_footprint, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Client,
		rec.Category,
		rec.City,
		rec.Country,
		rec.Title,
		rec.Link,
		rec.Snippet,
		rec.Email,
		rec.Phone,
		rec.HasTechFootprint,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: create: %w", err)
	}
	if n == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (s *sqliteStore) List(ctx context.Context, filter storage.Filter) ([]*lead.Record, error) {
	query := `SELECT id, client, category, city, country, title, link, snippet, email, phone, has_tech_footprint, created_at FROM leads WHERE 1=1`
	args := []any{}

	if filter.Client != "" {
		query += ` AND client = ? COLLATE NOCASE`
		args = append(args, filter.Client)
	}
	if filter.Category != "" {
		query += ` AND category = ? COLLATE NOCASE`
		args = append(args, filter.Category)
	}
	if filter.Country != "" {
		query += ` AND country = ? COLLATE NOCASE`
		args = append(args, filter.Country)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UnixNano())
	}

	query += ` ORDER BY created_at DESC`

	// SQLite only accepts OFFSET after LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := -1
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	results := []*lead.Record{}
	for rows.Next() {
		var r lead.Record
		var createdAt int64

		err := rows.Scan(
			&r.ID, &r.Client, &r.Category, &r.City, &r.Country, &r.Title, &r.Link,
			&r.Snippet, &r.Email, &r.Phone, &r.HasTechFootprint, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()

		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}

	return results, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
