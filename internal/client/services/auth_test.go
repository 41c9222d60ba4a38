package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/dmitrijs2005/trainpi/internal/client/remote"
	"github.com/dmitrijs2005/trainpi/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginBeginsSession(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	clk := fakeclock.NewFakeClock(t0)
	sessions := session.NewManager(db)
	rc := &fakeRemote{loginRet: &models.AuthResult{
		User:  models.User{ID: "u-1", Email: "ann@example.com", FullName: "Ann"},
		Token: "tok",
	}}
	svc := NewAuthService(rc, sessions, clk)

	s, err := svc.Login(ctx, "ann@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", s.DisplayName())

	cur, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", cur.Token)
	assert.True(t, t0.Equal(cur.StartedAt))

	require.NoError(t, svc.Logout(ctx))
	_, err = sessions.Current(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestAuthService_LoginFailureKeepsNoSession(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	sessions := session.NewManager(db)
	svc := NewAuthService(&fakeRemote{loginErr: remote.ErrUnauthorized}, sessions, fakeclock.NewFakeClock(t0))

	_, err := svc.Login(ctx, "ann@example.com", "nope")
	assert.ErrorIs(t, err, remote.ErrUnauthorized)

	_, err = sessions.Current(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestAuthService_RegisterAndPing(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	rc := &fakeRemote{}
	svc := NewAuthService(rc, session.NewManager(db), fakeclock.NewFakeClock(t0))

	u, err := svc.Register(ctx, "bob@example.com", "password1", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.FullName)
	assert.NoError(t, svc.Ping(ctx))

	rc.regErr = remote.ErrRemote
	_, err = svc.Register(ctx, "bob@example.com", "password1", "Bob")
	assert.ErrorIs(t, err, remote.ErrRemote)

	rc.pingErr = unavailable()
	assert.ErrorIs(t, svc.Ping(ctx), remote.ErrUnavailable)
}

func TestProfileService(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewProfileService(profiles.NewSQLiteRepository(db))
	ann := &session.Session{UserID: "u-1", StartedAt: time.Now()}
	bob := &session.Session{UserID: "u-2"}

	got, err := svc.Show(ctx, ann)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got))

	require.NoError(t, svc.Set(ctx, ann, json.RawMessage(`{"lessons":[1,2]}`)))
	got, err = svc.Show(ctx, ann)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lessons":[1,2]}`, string(got))

	got, err = svc.Show(ctx, bob)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got))

	err = svc.Set(ctx, ann, json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, common.ErrorValidation)
}
