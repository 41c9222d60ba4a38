package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return db, mock
}

func TestRepositories_AllBound(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager(db)
	r := m.Repositories()
	assert.NotNil(t, r.Users)
	assert.NotNil(t, r.Exceptions)
}

func TestInTx_Commit(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE\s+exceptions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewPostgresRepositoryManager(db)
	err := m.InTx(context.Background(), func(ctx context.Context, r Repositories) error {
		e := models.NewException(1, "Attendance", "", time.Now())
		require.NoError(t, e.Clear(time.Now()))
		return r.Exceptions.Update(ctx, e)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollbackOnError(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	m := NewPostgresRepositoryManager(db)
	err := m.InTx(context.Background(), func(context.Context, Repositories) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("bad migration")
	}
	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad migration")
}

func TestMemoryRepositoryManager(t *testing.T) {
	var m RepositoryManager = NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background()))

	called := false
	err := m.InTx(context.Background(), func(_ context.Context, r Repositories) error {
		called = true
		assert.NotNil(t, r.Users)
		assert.NotNil(t, r.Exceptions)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
