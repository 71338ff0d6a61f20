package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/repository"
)

const (
	defaultAuthHeaderName = "Authorization"
	defaultAuthScheme     = "Bearer"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type TokenManager interface {
	Issue(user models.User) (models.IssuedToken, error)
	Parse(token string) (models.Claims, error)
}

type Config struct {
	// Hasher to use during user registration or login process
	// BcryptHasher if not set
	Hasher PasswordHasher

	// Request header and scheme the session token is read from
	AuthHeaderName string
	AuthScheme     string
}

type RegisterParams struct {
	Email    string
	Password string
	FullName string
	Role     string
	Profile  models.Profile
}

// Issued session token and the user it was issued for
type Result struct {
	Token models.IssuedToken
	User  models.User
}

type AuthService struct {
	hasher  PasswordHasher
	tokens  TokenManager
	storage repository.Storage

	authHeaderName string
	authScheme     string

	// Hash compared on login of unknown email, so both login failures take the same time
	dummyHash func() string
}

func NewService(cfg Config, tokens TokenManager, storage repository.Storage) (*AuthService, error) {
	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher
	}
	if cfg.AuthHeaderName == "" {
		cfg.AuthHeaderName = defaultAuthHeaderName
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}

	hasher := cfg.Hasher
	return &AuthService{
		hasher:         hasher,
		tokens:         tokens,
		storage:        storage,
		authHeaderName: cfg.AuthHeaderName,
		authScheme:     cfg.AuthScheme,
		dummyHash: sync.OnceValue(func() string {
			hash, _ := hasher.Hash("memoria-dummy-password")
			return hash
		}),
	}, nil
}

// Register new user and issue session token
// Has to return apperrors.ErrUserAlreadyExists if email already taken
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (Result, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return Result{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, repository.CreateUserParams{
		Email:          params.Email,
		HashedPassword: hash,
		FullName:       params.FullName,
		Role:           params.Role,
		Profile:        params.Profile,
	})
	if err != nil {
		return Result{}, err
	}

	return s.issue(user)
}

// Register user as patient, regardless of requested role
func (s *AuthService) RegisterPatient(ctx context.Context, params RegisterParams) (Result, error) {
	params.Role = models.RolePatient
	return s.Register(ctx, params)
}

// Login user with email and password
// Unknown email returns apperrors.ErrUserNotFound, wrong password apperrors.ErrPasswordMismatch
func (s *AuthService) Login(ctx context.Context, email string, password string) (Result, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		_ = s.hasher.Compare(s.dummyHash(), password)
		return Result{}, err
	case err != nil:
		return Result{}, fmt.Errorf("can't get user. Err: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return Result{}, apperrors.ErrPasswordMismatch
	}

	return s.issue(user)
}

// Revoke session token, so it never passes Auth again
// Revoking already revoked token is ok
func (s *AuthService) Logout(ctx context.Context, session models.Session) error {
	err := s.storage.Revoked().Revoke(ctx, session.Token, session.Claims.ExpiresAt)
	if err != nil {
		return fmt.Errorf("can't revoke token. Err: %w", err)
	}
	return nil
}

// Authenticate request by its session token
// Checks run in order and the first failed one wins:
// token presence (ErrNoToken), blacklist (ErrTokenRevoked), signature and expiry (ErrTokenInvalid)
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.Session, error) {
	token, err := s.readToken(r)
	if err != nil {
		return models.Session{}, err
	}

	revoked, err := s.storage.Revoked().IsRevoked(ctx, token)
	if err != nil {
		return models.Session{}, fmt.Errorf("can't check token revocation. Err: %w", err)
	}
	if revoked {
		return models.Session{}, apperrors.ErrTokenRevoked
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	return models.Session{Token: token, Claims: claims}, nil
}

func (s *AuthService) readToken(r *http.Request) (string, error) {
	scheme, token, found := strings.Cut(r.Header.Get(s.authHeaderName), " ")
	token = strings.TrimSpace(token)

	if !found || !strings.EqualFold(scheme, s.authScheme) || token == "" {
		return "", apperrors.ErrNoToken
	}
	return token, nil
}

func (s *AuthService) issue(user models.User) (Result, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return Result{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}
	return Result{Token: token, User: user}, nil
}
