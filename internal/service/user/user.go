package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/repository"
)

type UserService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{storage: storage}
}

// Has to return apperrors.ErrUserNotFound if user not exists
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return user, fmt.Errorf("can't get user. Err: %w", err)
	}
	return user, nil
}

// Replace patient details. Email, password and role are never changed here
func (s *UserService) UpdateDetails(ctx context.Context, userID uuid.UUID, profile models.Profile) (models.User, error) {
	user, err := s.storage.User().UpdateProfile(ctx, userID, profile)
	if err != nil {
		return user, fmt.Errorf("can't update user details. Err: %w", err)
	}
	return user, nil
}
