package exceptions

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/repositories"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repositories.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func cleared(id int64, created time.Time, seconds int64) models.Exception {
	e := models.NewException(id, "Attendance", "r", created)
	if err := e.Clear(created.Add(time.Duration(seconds) * time.Second)); err != nil {
		panic(err)
	}
	return *e
}

func TestUpsertAndGet_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)

	want := cleared(7, created, 3661)
	require.NoError(t, r.Upsert(ctx, &want))

	got, err := r.GetByID(ctx, 7)
	require.NoError(t, err)
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReplaceAll_InTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Upsert(ctx, models.NewException(99, "Stale", "", now)))

	items := []models.Exception{
		*models.NewException(2, "Payment", "", now),
		cleared(1, now, 90),
	}
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).ReplaceAll(ctx, items)
	})
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
	assert.Nil(t, list[1].Duration)
	assert.Equal(t, int64(90), *list[0].Duration)
}

func TestUpsert_OverwritesExisting(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	open := models.NewException(3, "Attendance", "", now)
	require.NoError(t, r.Upsert(ctx, open))
	require.NoError(t, open.Clear(now.Add(time.Minute)))
	require.NoError(t, r.Upsert(ctx, open))

	got, err := r.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, got.IsCleared())
	assert.Equal(t, int64(60), *got.Duration)
}

func TestNextLocalID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id, err := r.NextLocalID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), id)

	require.NoError(t, r.Upsert(ctx, models.NewException(41, "Attendance", "", time.Now())))
	id, err = r.NextLocalID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), id, "server ids do not move the local sequence")

	require.NoError(t, r.Upsert(ctx, models.NewException(-3, "Attendance", "", time.Now())))
	id, err = r.NextLocalID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), id)
}

func TestDeleteAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, models.NewException(1, "Attendance", "", time.Now())))
	require.NoError(t, r.DeleteAll(ctx))

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
