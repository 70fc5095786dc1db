package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dErrors "chassisd/pkg/domain-errors"
	"chassisd/pkg/platform/sentinel"
)

// PostgresStore persists counters in PostgreSQL. Atomicity is delegated to
// the database: one upsert both advances and reads the counter, so
// concurrent allocators on the same key serialize on the row lock and can
// never observe overlapping ranges.
type PostgresStore struct {
	db *sql.DB
}

// Schema for the sequences table. Applied by migrations; kept here so the
// store is self-describing.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS sequences (
    key        TEXT PRIMARY KEY,
    last_value BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgres constructs a PostgreSQL-backed sequence store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sequences table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("ensure sequences schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Allocate(ctx context.Context, key string, count int) (int64, error) {
	if count < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidParameter, "allocation count must be positive")
	}
	var last int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sequences (key, last_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET last_value = sequences.last_value + $2, updated_at = now()
		RETURNING last_value`,
		key, int64(count),
	).Scan(&last)
	if err != nil {
		return 0, dErrors.Wrap(fmt.Errorf("allocate sequence range: %w", err), dErrors.CodeStorageFailure, "persist sequence counter")
	}
	return last - int64(count) + 1, nil
}

func (s *PostgresStore) Peek(ctx context.Context, key string) (int64, error) {
	var last int64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_value FROM sequences WHERE key = $1`, key,
	).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("peek sequence counter: %w", err)
	}
	return last, nil
}

func (s *PostgresStore) Reset(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sequences WHERE key = $1`, key,
	); err != nil {
		return dErrors.Wrap(fmt.Errorf("reset sequence counter: %w", err), dErrors.CodeStorageFailure, "persist sequence counter")
	}
	return nil
}
