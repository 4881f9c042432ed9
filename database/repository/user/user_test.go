package userRepo

import (
	"context"
	"errors"
	"testing"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIsKeyedBySubject(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(nil))
	u := models.User{ID: "uid-1", Email: "sarah@example.com", Name: "Sarah", Role: models.RoleCleaner, IsActive: true}

	require.NoError(t, repo.Create(ctx, u))
	assert.True(t, errors.Is(repo.Create(ctx, u), store.ErrAlreadyExists))

	got, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sarah@example.com", got.Email)

	byEmail, err := repo.GetByEmail(ctx, "sarah@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "uid-1", byEmail.ID)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	repo := NewUserRepository(store.NewMemoryStore(nil))

	err := repo.Create(context.Background(), models.User{ID: "uid-2", Email: "x@example.com", Role: "owner"})
	assert.True(t, errors.Is(err, store.ErrValidationFailed))
}
