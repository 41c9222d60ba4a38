// Package remote talks to the TrainPi server over HTTP or gRPC. Both
// clients report failures with the sentinel errors below so callers can
// decide when to fall back to local data.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trainpi/internal/models"
)

var (
	// ErrUnavailable covers transport failures, timeouts and 5xx answers.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized means the token is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRemote is any other rejection by the server.
	ErrRemote = errors.New("server rejected request")
	// ErrMalformedPayload means a success answer could not be decoded or
	// carried records that break the exception invariants.
	ErrMalformedPayload = errors.New("malformed server payload")
)

// Client is the remote exceptions and auth API.
type Client interface {
	List(ctx context.Context) ([]models.Exception, error)
	Clear(ctx context.Context, id int64) (*models.Exception, error)
	Create(ctx context.Context, typ, remarks string) (*models.Exception, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}

func validateAll(items []models.Exception) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %w", ErrMalformedPayload, items[i].ID, err)
		}
	}
	return nil
}
