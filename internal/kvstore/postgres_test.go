package kvstore

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/getmentor/engineer-form/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.value
	return nil
}

// fakeQuerier emulates the form_kv table in a map
type fakeQuerier struct {
	rows map[string][]byte
	err  error
	sqls []string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{rows: make(map[string][]byte)}
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	key := args[0].(string)
	switch sql {
	case upsertValueSQL:
		f.rows[key] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case deleteValueSQL:
		delete(f.rows, key)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unexpected sql")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sqls = append(f.sqls, sql)
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	value, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newFakeQuerier()
	store := NewPostgresStore(db)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, "postgres", store.Name())
	assert.Contains(t, db.sqls, upsertValueSQL)
}

func TestPostgresStore_ErrorsAreStorageErrors(t *testing.T) {
	ctx := context.Background()
	db := newFakeQuerier()
	db.err = errors.New("connection refused")
	store := NewPostgresStore(db)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v")), apperrors.ErrStorage)
	assert.ErrorIs(t, store.Delete(ctx, "k"), apperrors.ErrStorage)
}
