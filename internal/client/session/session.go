// Package session holds the signed-in user's identity and token. A Session
// is created once at login, persisted in the local metadata table so later
// CLI runs can resume it, and removed at logout.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/repositories/exceptions"
	"github.com/dmitrijs2005/trainpi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/dbx"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

const metadataKey = "session"

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not logged in")

type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Token     string    `json:"token"`
	StartedAt time.Time `json:"started_at"`
}

// DisplayName prefers the full name and falls back to the email.
func (s *Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Email
}

type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Begin replaces any previous session with one built from res. The cached
// exceptions belong to the previous user and are dropped with it.
func (m *Manager) Begin(ctx context.Context, res *models.AuthResult, now time.Time) (*Session, error) {
	if res == nil || res.Token == "" || res.User.ID == "" {
		return nil, fmt.Errorf("%w: incomplete login result", common.ErrorValidation)
	}

	s := &Session{
		UserID:    res.User.ID,
		Email:     res.User.Email,
		FullName:  res.User.FullName,
		Token:     res.Token,
		StartedAt: now.UTC(),
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		prev, err := current(ctx, tx)
		if err != nil && !errors.Is(err, ErrNoSession) {
			return err
		}
		if prev == nil || prev.UserID != s.UserID {
			if err := exceptions.NewSQLiteRepository(tx).DeleteAll(ctx); err != nil {
				return err
			}
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadataKey, data)
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Current returns the persisted session or ErrNoSession.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	return current(ctx, m.db)
}

func current(ctx context.Context, db dbx.DBTX) (*Session, error) {
	data, err := metadata.NewSQLiteRepository(db).Get(ctx, metadataKey)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session: %w", err)
	}
	return &s, nil
}

// End removes the session and the cached exceptions. Ending without a
// session is not an error.
func (m *Manager) End(ctx context.Context) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := exceptions.NewSQLiteRepository(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Delete(ctx, metadataKey)
	})
}
