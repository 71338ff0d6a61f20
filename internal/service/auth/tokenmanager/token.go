package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/memoria/internal/models"
)

const (
	defaultTokenTTL      = 15 * 24 * time.Hour
	defaultSigningMethod = "HS256"
)

type SessionClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// Token manager with sensible default
type Config struct {
	// Secret key to sign session token
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Session token lifetime
	// If not set than default is used
	TTL time.Duration
}

type TokenManager struct {
	// Secret key to sign session token
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	ttl time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method %q", cfg.Alg)
	}

	if cfg.TTL == 0 {
		cfg.TTL = defaultTokenTTL
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: alg,
		ttl: cfg.TTL,
	}, nil
}

// Issue signed session token for the user
func (m *TokenManager) Issue(user models.User) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		},
	)
	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing session token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse and validate session token: signature, algorithm and expiry
func (m *TokenManager) Parse(token string) (models.Claims, error) {
	claims := &SessionClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Claims{}, fmt.Errorf("error while parsing or validating token. Err: %w", err)
	}

	c := models.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		c.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		c.ExpiresAt = claims.ExpiresAt.Time
	}

	return c, nil
}
