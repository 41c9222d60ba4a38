package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/repositories"
	"github.com/dmitrijs2005/trainpi/internal/client/remote"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repositories.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeRemote is a scripted remote.Client.
type fakeRemote struct {
	listRet   []models.Exception
	listErr   error
	clearRet  *models.Exception
	clearErr  error
	createRet *models.Exception
	createErr error
	loginRet  *models.AuthResult
	loginErr  error
	regErr    error
	pingErr   error

	clearCalls []int64
}

func (f *fakeRemote) List(context.Context) ([]models.Exception, error) { return f.listRet, f.listErr }

func (f *fakeRemote) Clear(_ context.Context, id int64) (*models.Exception, error) {
	f.clearCalls = append(f.clearCalls, id)
	return f.clearRet, f.clearErr
}

func (f *fakeRemote) Create(context.Context, string, string) (*models.Exception, error) {
	return f.createRet, f.createErr
}

func (f *fakeRemote) Login(context.Context, string, string) (*models.AuthResult, error) {
	return f.loginRet, f.loginErr
}

func (f *fakeRemote) Register(_ context.Context, email, _, fullName string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: "u-1", Email: email, FullName: fullName}, nil
}

func (f *fakeRemote) Ping(context.Context) error { return f.pingErr }
func (f *fakeRemote) Close() error               { return nil }

var errDown = errors.New("connection refused")

func unavailable() error { return errors.Join(remote.ErrUnavailable, errDown) }

type entry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries *[]entry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]entry{}}
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, entry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range *l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}
