package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/server/auth"
	"github.com/dmitrijs2005/trainpi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/trainpi/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fixture struct {
	srv   *Server
	clock *fakeclock.FakeClock
	token string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	clk := fakeclock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	us := services.NewUserService(m, secret, time.Hour)
	es := services.NewExceptionService(m, clk, logging.Nop())

	token, err := auth.GenerateToken("u-1", []byte(secret), time.Hour)
	require.NoError(t, err)

	return &fixture{srv: NewServer("127.0.0.1:0", logging.Nop(), us, es, secret), clock: clk, token: token}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(common.RequestIDHeaderName))
}

func TestExceptions_RequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/exceptions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/exceptions", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
}

func TestExceptions_CreateListClear(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/exceptions", map[string]string{"type": "Attendance", "remarks": "late"}, f.token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Exception
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusException, created.Status)

	f.clock.Increment(90 * time.Second)

	rec = f.do(t, http.MethodPost, "/exceptions/1/clear", nil, f.token)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared models.Exception
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	require.NotNil(t, cleared.Duration)
	assert.Equal(t, int64(90), *cleared.Duration)

	rec = f.do(t, http.MethodGet, "/exceptions?status=cleared", nil, f.token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Exception
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestExceptions_ErrorMapping(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/exceptions/99/clear", nil, f.token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/exceptions/abc/clear", nil, f.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/exceptions?status=bogus", nil, f.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/exceptions", map[string]string{"type": ""}, f.token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@b.c", "password": "password1", "full_name": "Alice"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@b.c", "password": "password1"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.c", "password": "password1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Alice", res.User.FullName)

	rec = f.do(t, http.MethodGet, "/exceptions", nil, res.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.c", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewServer("127.0.0.1:99999", logging.Nop(), nil, nil, secret)
	err := srv.Run(context.Background())
	assert.Error(t, err)
}
