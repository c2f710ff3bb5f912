package history

import (
	"context"
	"errors"
	"io"
	"log"

	"delicias-urbanas/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type postgresStore struct {
	pool   DBPool
	logger *log.Logger
}

func NewPostgres(pool DBPool, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (r *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = $1`
	var value string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("history store: get key=%s error=%v", key, err)
		return nil, err
	}
	return []byte(value), nil
}

func (r *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, key, string(value)); err != nil {
		r.logger.Printf("history store: set key=%s error=%v", key, err)
		return err
	}
	return nil
}
