package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the part of pgxpool.Pool (or a pgx.Tx) the store needs.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// PostgresStore shares one operator session between console instances.
type PostgresStore struct {
	db  Querier
	key string
}

func NewPostgresStore(db Querier, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// EnsureSchema creates the admin_sessions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const op = "PostgresStore.EnsureSchema"
	query := `
		CREATE TABLE IF NOT EXISTS admin_sessions (
			storage_key TEXT PRIMARY KEY,
			token       TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);`

	if _, err := s.db.Exec(ctx, query); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context) (token string, err error) {
	const op = "PostgresStore.Get"
	defer observe("session_get", time.Now(), &err)
	query := `
		SELECT token
		FROM admin_sessions
		WHERE storage_key = $1;`

	if err = s.db.QueryRow(ctx, query, s.key).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return token, nil
}

func (s *PostgresStore) Set(ctx context.Context, token string) (err error) {
	const op = "PostgresStore.Set"
	defer observe("session_set", time.Now(), &err)
	query := `
		INSERT INTO admin_sessions(storage_key, token, updated_at)
		VALUES($1, $2, now())
		ON CONFLICT (storage_key)
		DO UPDATE SET token = EXCLUDED.token, updated_at = now();`

	if _, err = s.db.Exec(ctx, query, s.key, token); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) (err error) {
	const op = "PostgresStore.Clear"
	defer observe("session_clear", time.Now(), &err)
	query := `
		DELETE FROM admin_sessions
		WHERE storage_key = $1;`

	if _, err = s.db.Exec(ctx, query, s.key); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func observe(operation string, start time.Time, err *error) {
	metrics.RecordDatabaseQuery("session", operation, *err, time.Since(start))
}
