// Package services contains the server-side business logic shared by the
// HTTP and gRPC transports.
package services

import (
	"context"

	"github.com/dmitrijs2005/trainpi/internal/models"
)

// Exceptions is the authoritative exception lifecycle.
type Exceptions interface {
	List(ctx context.Context, userID string, filter models.StatusFilter) ([]models.Exception, error)
	Create(ctx context.Context, userID, typ, remarks string) (*models.Exception, error)
	Clear(ctx context.Context, userID string, id int64) (*models.Exception, error)
}

// Users handles registration and login.
type Users interface {
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
}
