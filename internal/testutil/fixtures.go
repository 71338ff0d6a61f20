package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/repository"
)

// Create user with placeholder password hash and name
// Use for tests that need an owner, not a login
func CreateUser(t *testing.T, storage repository.Storage, email string, role string) models.User {
	t.Helper()

	user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
		Email:          email,
		HashedPassword: "hash",
		FullName:       "Test User",
		Role:           role,
	})
	require.NoError(t, err, "can't create user fixture")
	return user
}
