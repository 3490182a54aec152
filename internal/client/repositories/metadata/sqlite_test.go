package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/minuend/internal/common"
	"github.com/dmitrijs2005/minuend/internal/dbx"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func newRepo(t *testing.T, db dbx.DBTX, at time.Time) *SQLiteRepository {
	t.Helper()
	r := NewSQLiteRepository(db)
	r.now = func() time.Time { return at }
	return r
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSetAndGet(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "jwt", []byte("token")))

	rec, err := r.Get(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "jwt", rec.Key)
	assert.Equal(t, []byte("token"), rec.Value)
	assert.True(t, rec.UpdatedAt.Equal(t0), "updated_at = %v", rec.UpdatedAt)
}

func TestGet_Missing_ReturnsNotFound(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)

	_, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSet_UpsertOverwritesValueAndTime(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, newRepo(t, db, t0).Set(ctx, "k", []byte("old")))
	later := t0.Add(time.Hour)
	require.NoError(t, newRepo(t, db, later).Set(ctx, "k", []byte("new")))

	rec, err := newRepo(t, db, later).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), rec.Value)
	assert.True(t, rec.UpdatedAt.Equal(later))
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	rec, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, rec.Value)
}

func TestList_OrderedByKey(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "jwt_saved_at", []byte{0xBB}))
	require.NoError(t, r.Set(ctx, "jwt", []byte{0xAA}))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "jwt", recs[0].Key)
	assert.Equal(t, "jwt_saved_at", recs[1].Key)
}

func TestDelete_ManyKeys_IsIdempotent(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Set(ctx, "c", []byte{3}))

	require.NoError(t, r.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c", recs[0].Key)
}

func TestClear_RemovesAllKeys(t *testing.T) {
	r := newRepo(t, setupDB(t), t0)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	recs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRepository_InsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		return newRepo(t, tx, t0).Set(ctx, "jwt", []byte("t"))
	})
	require.NoError(t, err)

	_, err = newRepo(t, db, t0).Get(ctx, "jwt")
	require.NoError(t, err)
}

func TestErrorsAreWrapped_WhenDBClosed(t *testing.T) {
	db := setupDB(t)
	r := newRepo(t, db, t0)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.NotErrorIs(t, err, common.ErrorNotFound)

	require.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list metadata")
}
