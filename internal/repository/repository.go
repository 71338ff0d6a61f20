package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/memoria/internal/models"
)

type Storage interface {
	User() UserRepo
	Revoked() RevokedTokenRepo
	Memory() MemoryRepo
}

type CreateUserParams struct {
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	Profile        models.Profile
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Replace user profile fields
	// If user not found must return apperrors.ErrUserNotFound
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile models.Profile) (models.User, error)
}

// Revoked (blacklisted) tokens repository interface
type RevokedTokenRepo interface {
	// Add token to the blacklist
	// Must be idempotent: revoking already revoked token is not an error
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// Report whether exactly this token string is blacklisted
	IsRevoked(ctx context.Context, token string) (bool, error)

	// Delete entries of tokens expired before the given time. Returns count of deleted rows
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type MemoryRepo interface {
	CreateMemory(ctx context.Context, memory models.Memory) (models.Memory, error)

	// List user memories, newest first
	ListMemories(ctx context.Context, userID uuid.UUID) ([]models.Memory, error)
}
