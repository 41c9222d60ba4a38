// Package exceptions stores exception records on the server side.
package exceptions

import (
	"context"

	"github.com/dmitrijs2005/trainpi/internal/models"
)

// Repository persists exception records scoped by owner.
type Repository interface {
	// Create stores e, assigns its ID and returns it.
	Create(ctx context.Context, e *models.Exception) (*models.Exception, error)

	// List returns the owner's records matching filter, ordered by id.
	List(ctx context.Context, userID string, filter models.StatusFilter) ([]models.Exception, error)

	// GetByID returns one record or common.ErrorNotFound. Inside a
	// transaction the PostgreSQL implementation locks the row.
	GetByID(ctx context.Context, userID string, id int64) (*models.Exception, error)

	// Update persists the status, clearedAt and duration of e.
	Update(ctx context.Context, e *models.Exception) error
}
