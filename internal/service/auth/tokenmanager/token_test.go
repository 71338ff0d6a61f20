package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/memoria/internal/models"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	testUser := models.User{
		ID:    uuid.New(),
		Email: "a@x.com",
		Role:  models.RoleCaregiver,
	}

	newManager := func(t *testing.T, ttl time.Duration) *TokenManager {
		m, err := New(Config{SecretKey: "test-secret-key", TTL: ttl})
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	// Sign claims with the test key bypassing the manager
	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims SessionClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultTokenTTL, m.ttl, "default token TTL should be set")
		require.Equal(t, 15*24*time.Hour, m.ttl, "session is valid for 15 days by default")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new without secret fails", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
	})

	t.Run("new with unknown alg fails", func(t *testing.T) {
		_, err := New(Config{SecretKey: "secret", Alg: "HS1024"})
		require.Error(t, err)
	})

	t.Run("Issue", func(t *testing.T) {
		t.Run("return token", func(t *testing.T) {
			m := newManager(t, time.Hour)

			token, err := m.Issue(testUser)

			require.NoError(t, err)
			assert.NotEmpty(t, token.Value, "token should not be empty")
			assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Second)
		})

		t.Run("token claims", func(t *testing.T) {
			m := newManager(t, time.Hour)
			issued, err := m.Issue(testUser)
			require.NoError(t, err)

			token, err := jwt.ParseWithClaims(issued.Value, &SessionClaims{}, func(token *jwt.Token) (any, error) {
				return []byte("test-secret-key"), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid, "token should be valid")

			claims, ok := token.Claims.(*SessionClaims)
			require.True(t, ok, "claims should be of type SessionClaims")
			assert.Equal(t, testUser.ID, claims.UserID, "user ID in token should match")
			assert.Equal(t, "a@x.com", claims.Email)
			assert.Equal(t, models.RoleCaregiver, claims.Role)
			assert.NotEmpty(t, claims.ID, "token has to has jti")
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
		})

		t.Run("generate different tokens", func(t *testing.T) {
			m := newManager(t, time.Hour)

			token1, err := m.Issue(testUser)
			require.NoError(t, err)
			token2, err := m.Issue(testUser)
			require.NoError(t, err)

			assert.NotEqual(t, token1.Value, token2.Value, "tokens issued in the same second must differ by jti")
		})
	})

	t.Run("Parse", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			m := newManager(t, time.Hour)
			issued, err := m.Issue(testUser)
			require.NoError(t, err, "token should be issued without errors")

			claims, err := m.Parse(issued.Value)

			require.NoError(t, err, "valid token should be parsed without errors")
			require.Equal(t, testUser.ID, claims.UserID)
			require.Equal(t, testUser.Email, claims.Email)
			require.Equal(t, testUser.Role, claims.Role)
			require.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, 0)
		})

		t.Run("not a token", func(t *testing.T) {
			m := newManager(t, time.Hour)

			_, err := m.Parse("invalid token")

			require.Error(t, err, "parsing even not a token should return an error")
		})

		t.Run("expired token", func(t *testing.T) {
			m := newManager(t, time.Hour)
			token := sign(t, jwt.SigningMethodHS256, []byte("test-secret-key"), SessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Second)),
				},
				UserID: testUser.ID,
			})

			_, err := m.Parse(token)

			require.Error(t, err, "correctly signed but expired token must fail")
			require.ErrorIs(t, err, jwt.ErrTokenExpired)
		})

		t.Run("token without exp", func(t *testing.T) {
			m := newManager(t, time.Hour)
			token := sign(t, jwt.SigningMethodHS256, []byte("test-secret-key"), SessionClaims{UserID: testUser.ID})

			_, err := m.Parse(token)

			require.Error(t, err, "token without expiration must fail")
		})

		t.Run("wrong key", func(t *testing.T) {
			m := newManager(t, time.Hour)
			token := sign(t, jwt.SigningMethodHS256, []byte("other-secret-key"), SessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
				UserID:           testUser.ID,
			})

			_, err := m.Parse(token)

			require.Error(t, err)
			require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
		})

		t.Run("other hmac alg", func(t *testing.T) {
			m := newManager(t, time.Hour)
			token := sign(t, jwt.SigningMethodHS512, []byte("test-secret-key"), SessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
				UserID:           testUser.ID,
			})

			_, err := m.Parse(token)

			require.Error(t, err, "only HS256 is accepted")
		})

		t.Run("not signed token", func(t *testing.T) {
			m := newManager(t, time.Hour)
			token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, SessionClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
				},
				UserID: testUser.ID,
			})

			_, err := m.Parse(token)

			require.Error(t, err, "Valid token with empty alg must fail")
		})
	})
}
