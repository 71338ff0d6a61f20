package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/memoria/internal/apperrors"
	"github.com/nkiryanov/memoria/internal/handlers/render"
	"github.com/nkiryanov/memoria/internal/handlers/userctx"
	"github.com/nkiryanov/memoria/internal/models"
)

type authService interface {
	// Authenticate request and return its session
	// Has to return apperrors.ErrNoToken, apperrors.ErrTokenRevoked or apperrors.ErrTokenInvalid if not authenticated
	Auth(ctx context.Context, r *http.Request) (models.Session, error)
}

// Session guard: rejects request without valid session token, otherwise attaches session to request context
func AuthMiddleware(as authService, l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := as.Auth(r.Context(), r)
			switch {
			case err == nil:
				ctx := userctx.New(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, apperrors.ErrNoToken):
				render.ServiceError(w, "No token provided", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrTokenRevoked):
				render.ServiceError(w, "Token has been revoked", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrTokenInvalid):
				render.ServiceError(w, "Invalid or expired token", http.StatusUnauthorized)
			case errors.Is(err, context.DeadlineExceeded):
				render.ServiceError(w, "Request timed out", http.StatusGatewayTimeout)
			default:
				l.Error("session check failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
		})
	}
}
