package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/handlers/userctx"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, r *http.Request) (models.Session, error)

func (f authFunc) Auth(ctx context.Context, r *http.Request) (models.Session, error) {
	return f(ctx, r)
}

func TestAuthMiddleware_Auth(t *testing.T) {
	// Simple handler that try to get session from context
	// If ok write session email to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set session or write error to response
		session, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(session.Claims.Email))
		require.NoError(t, err, "should write email to response")
	})

	get := func(t *testing.T, as authService) (int, string) {
		srv := httptest.NewServer(AuthMiddleware(as, logger.NewNoOpLogger())(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp.StatusCode, string(body)
	}

	t.Run("auth ok", func(t *testing.T) {
		// Middleware that always return ok
		as := authFunc(func(ctx context.Context, r *http.Request) (models.Session, error) {
			return models.Session{Token: "t", Claims: models.Claims{Email: "a@x.com"}}, nil
		})

		code, body := get(t, as)

		require.Equalf(t, http.StatusOK, code, "should return status OK. Resp: %s", body)
		require.Equal(t, "a@x.com", body, "should return email in response")
	})

	tests := []struct {
		name     string
		err      error
		code     int
		expected string
	}{
		{
			name:     "no token",
			err:      apperrors.ErrNoToken,
			code:     http.StatusUnauthorized,
			expected: `{"error": "service_error", "message": "No token provided"}`,
		},
		{
			name:     "revoked token",
			err:      apperrors.ErrTokenRevoked,
			code:     http.StatusUnauthorized,
			expected: `{"error": "service_error", "message": "Token has been revoked"}`,
		},
		{
			name:     "invalid token",
			err:      fmt.Errorf("%w: token is expired", apperrors.ErrTokenInvalid),
			code:     http.StatusUnauthorized,
			expected: `{"error": "service_error", "message": "Invalid or expired token"}`,
		},
		{
			name:     "store timeout",
			err:      fmt.Errorf("db error: %w", context.DeadlineExceeded),
			code:     http.StatusGatewayTimeout,
			expected: `{"error": "service_error", "message": "Request timed out"}`,
		},
		{
			name:     "store failure",
			err:      errors.New("connection refused"),
			code:     http.StatusInternalServerError,
			expected: `{"error": "service_error", "message": "Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := authFunc(func(ctx context.Context, r *http.Request) (models.Session, error) {
				return models.Session{}, tt.err
			})

			code, body := get(t, as)

			require.Equalf(t, tt.code, code, "not expected status. Resp: %s", body)
			require.JSONEq(t, tt.expected, body)
		})
	}
}
