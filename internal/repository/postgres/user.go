package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, email, password_hash, full_name, role,
	phone, nickname, date_of_birth, address, interests,
	caregiver_name, caregiver_email, caregiver_phone`

const createUser = `-- name: CreateUser
INSERT INTO users (id, email, password_hash, full_name, role,
	phone, nickname, date_of_birth, address, interests,
	caregiver_name, caregiver_email, caregiver_phone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	p := arg.Profile
	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), arg.Email, arg.HashedPassword, arg.FullName, arg.Role,
		p.Phone, p.Nickname, p.DateOfBirth, p.Address, interestsOrEmpty(p.Interests),
		p.Caregiver.Name, p.Caregiver.Email, p.Caregiver.Phone,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: getUserByID
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: getUserByEmail
SELECT ` + userColumns + ` FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const updateProfile = `-- name: UpdateProfile
UPDATE users
SET phone = $2, nickname = $3, date_of_birth = $4, address = $5, interests = $6,
	caregiver_name = $7, caregiver_email = $8, caregiver_phone = $9
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, p models.Profile) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateProfile,
		userID, p.Phone, p.Nickname, p.DateOfBirth, p.Address, interestsOrEmpty(p.Interests),
		p.Caregiver.Name, p.Caregiver.Email, p.Caregiver.Phone,
	)
	return collectUser(rows)
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.Email, &u.HashedPassword, &u.FullName, &u.Role,
		&u.Profile.Phone, &u.Profile.Nickname, &u.Profile.DateOfBirth, &u.Profile.Address, &u.Profile.Interests,
		&u.Profile.Caregiver.Name, &u.Profile.Caregiver.Email, &u.Profile.Caregiver.Phone,
	)
	return u, err
}

// interests column is NOT NULL, nil slice would be sent as NULL
func interestsOrEmpty(interests []string) []string {
	if interests == nil {
		return []string{}
	}
	return interests
}
