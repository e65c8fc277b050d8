package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// ensure postgresStore implements storage.LeadStore
var _ storage.LeadStore = (*postgresStore)(nil)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type postgresStore struct {
	db DB
}

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
	has_tech_footprint BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS leads_created_at ON leads (created_at DESC);
`

const (
	existsQuery = `SELECT EXISTS (SELECT 1 FROM leads WHERE link = $1)`
	insertQuery = `INSERT INTO leads (id, client, category, city, country, title, link, snippet, email, phone, has_tech_footprint, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (link) DO NOTHING`
	selectQuery = `SELECT id, client, category, city, country, title, link, snippet, email, phone, has_tech_footprint, created_at FROM leads WHERE 1=1`
)

// New connects to dsn, ensures the schema and returns a Postgres-backed
// storage.LeadStore.
func New(ctx context.Context, dsn string) (storage.LeadStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s, err := NewWithDB(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing pool (or mock) and ensures the schema.
func NewWithDB(ctx context.Context, db DB) (storage.LeadStore, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) ExistsByLink(ctx context.Context, link string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, existsQuery, link).Scan(&ok); err != nil {
		return false, fmt.Errorf("postgres: exists: %w", err)
	}
	return ok, nil
}

func (s *postgresStore) Create(ctx context.Context, rec *lead.Record) error {
	tag, err := s.db.Exec(ctx, insertQuery,
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
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

func (s *postgresStore) List(ctx context.Context, filter storage.Filter) ([]*lead.Record, error) {
	query, args := buildList(filter)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	results := []*lead.Record{}
	for rows.Next() {
		var r lead.Record
		err := rows.Scan(
			&r.ID, &r.Client, &r.Category, &r.City, &r.Country, &r.Title, &r.Link,
			&r.Snippet, &r.Email, &r.Phone, &r.HasTechFootprint, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}

	return results, nil
}

func buildList(filter storage.Filter) (string, []any) {
	query := selectQuery
	args := []any{}
	paramCount := 1

	if filter.Client != "" {
		query += fmt.Sprintf(` AND lower(client) = lower($%d)`, paramCount)
		args = append(args, filter.Client)
		paramCount++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND lower(category) = lower($%d)`, paramCount)
		args = append(args, filter.Category)
		paramCount++
	}
	if filter.Country != "" {
		query += fmt.Sprintf(` AND lower(country) = lower($%d)`, paramCount)
		args = append(args, filter.Country)
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
	}

	return query, args
}

func (s *postgresStore) Close() error {
	s.db.Close()
	return nil
}
