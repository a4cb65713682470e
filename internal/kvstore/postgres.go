package kvstore

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the store needs
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	selectValueSQL = `SELECT value FROM form_kv WHERE key = $1`
	upsertValueSQL = `INSERT INTO form_kv (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	deleteValueSQL = `DELETE FROM form_kv WHERE key = $1`
)

// PostgresStore keeps values in the form_kv table (see migrations/)
type PostgresStore struct {
	db Querier
}

// NewPostgresStore creates a store on top of a pgx pool
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Name() string { return "postgres" }

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	var value []byte
	err := p.db.QueryRow(ctx, selectValueSQL, key).Scan(&value)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = notFound(key)
	case err != nil:
		err = apperrors.StorageError("postgres.get", err)
	}
	observe(ctx, p.Name(), "get", key, start, err)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := p.db.Exec(ctx, upsertValueSQL, key, value)
	if err != nil {
		err = apperrors.StorageError("postgres.set", err)
	}
	observe(ctx, p.Name(), "set", key, start, err)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := p.db.Exec(ctx, deleteValueSQL, key)
	if err != nil {
		err = apperrors.StorageError("postgres.delete", err)
	}
	observe(ctx, p.Name(), "delete", key, start, err)
	return err
}
