package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/nkiryanov/memoria/internal/handlers/middleware"
	"github.com/nkiryanov/memoria/internal/handlers/render"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/models"
	"github.com/nkiryanov/memoria/internal/service/auth"
	"github.com/nkiryanov/memoria/internal/service/memory"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	// Deadline of every request, zero disables it
	RequestTimeout time.Duration

	// Origins allowed to make cross-origin requests, "*" allows any
	AllowedOrigins []string
}

func NewRouter(
	authService authService,
	userService userService,
	memoryService memoryService,
	logger logger.Logger,
	cfg RouterConfig,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService, logger)

	apiauth := http.NewServeMux()
	apiauth.Handle("POST /signup", handleSignup(authService, logger))
	apiauth.Handle("POST /login", handleLogin(authService, logger))
	apiauth.Handle("POST /patient-signup", handlePatientSignup(authService, logger))
	apiauth.Handle("POST /logout", withAuth(handleLogout(authService, logger)))
	apiauth.Handle("POST /patient-details", withAuth(handlePatientDetails(userService, logger)))
	apiauth.Handle("GET /me", withAuth(handleUserMe(userService, logger)))

	apimemory := http.NewServeMux()
	apimemory.Handle("POST /upload", withAuth(handleUploadMemory(memoryService, logger)))

	root := http.NewServeMux()
	root.Handle("/auth/", http.StripPrefix("/auth", apiauth))
	root.Handle("/memory/", http.StripPrefix("/memory", apimemory))
	root.Handle("GET /memory", withAuth(handleListMemories(memoryService, logger)))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		c.Handler,
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
	)

	return handler
}

type authService interface {
	// Register user and issue session token
	// Has to return apperrors.ErrUserAlreadyExists if email already taken
	Register(ctx context.Context, params auth.RegisterParams) (auth.Result, error)

	// Same as Register, but user always becomes a patient
	RegisterPatient(ctx context.Context, params auth.RegisterParams) (auth.Result, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrPasswordMismatch on bad credentials
	Login(ctx context.Context, email string, password string) (auth.Result, error)

	// Revoke session token
	Logout(ctx context.Context, session models.Session) error

	// Get request and return session if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.Session, error)
}

type userService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateDetails(ctx context.Context, userID uuid.UUID, profile models.Profile) (models.User, error)
}

type memoryService interface {
	Upload(ctx context.Context, params memory.UploadParams) (models.Memory, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Memory, error)
}

// Render internal failure. Details are logged but never sent to the client
func internalError(w http.ResponseWriter, l logger.Logger, msg string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		render.ServiceError(w, "Request timed out", http.StatusGatewayTimeout)
		return
	}

	l.Error(msg, "error", err)
	render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
}
