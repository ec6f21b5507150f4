// Package postgres implements the domain repositories on PostgreSQL through
// a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/repository/migrate"
	"github.com/msomdec/mockmatch/internal/repository/postgres/migrations"
)

const uniqueViolation = "23505"

// DB wraps a PostgreSQL connection pool and implements domain.Database.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 25
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrate.Run(ctx, migrations.FS, &migrationStore{pool: db.Pool})
}

func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

func (db *DB) Users() domain.UserRepository                 { return &UserRepository{pool: db.Pool} }
func (db *DB) MatchRequests() domain.MatchRequestRepository { return &MatchRequestRepository{pool: db.Pool} }
func (db *DB) Slots() domain.InterviewSlotRepository        { return &SlotRepository{pool: db.Pool} }

type migrationStore struct {
	pool *pgxpool.Pool
}

func (s *migrationStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (s *migrationStore) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, "SELECT filename FROM schema_migrations ORDER BY filename")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}

func (s *migrationStore) Apply(ctx context.Context, filename, content string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// No arguments, so pgx sends the file over the simple protocol and
	// multiple statements are allowed.
	if _, err := tx.Exec(ctx, content); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", filename); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit(ctx)
}

// Reset empties every table and restarts id sequences. Tests use it to get
// a clean database between cases.
func (db *DB) Reset(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `TRUNCATE interview_slots, match_requests, users RESTART IDENTITY CASCADE`)
	return err
}

// isUniqueViolation reports whether err is a unique violation on constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// now matches the microsecond precision of TIMESTAMPTZ.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
