package services

import (
	"context"
	"fmt"

	"code.cloudfoundry.org/clock"
	"github.com/dmitrijs2005/trainpi/internal/client/remote"
	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

// AuthService signs users up, in and out. Login opens the session that
// every later CLI invocation resumes.
type AuthService struct {
	remote   remote.Client
	sessions *session.Manager
	clock    clock.Clock
}

func NewAuthService(rc remote.Client, sessions *session.Manager, clk clock.Clock) *AuthService {
	return &AuthService{remote: rc, sessions: sessions, clock: clk}
}

func (a *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	u, err := a.remote.Register(ctx, email, password, fullName)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return u, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	res, err := a.remote.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	s, err := a.sessions.Begin(ctx, res, a.clock.Now())
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *AuthService) Logout(ctx context.Context) error {
	return a.sessions.End(ctx)
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.remote.Ping(ctx)
}
