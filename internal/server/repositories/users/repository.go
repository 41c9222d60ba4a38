// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/trainpi/internal/models"
)

type Repository interface {
	// Create stores u. A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	// GetByEmail returns the account or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
