package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &models.User{ID: "u-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{ID: "u-2", Email: "a@b.c"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := repo.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = repo.GetByEmail(ctx, "x@y.z")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
