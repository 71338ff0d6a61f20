package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"github.com/nkiryanov/memoria/internal/db"
	"github.com/nkiryanov/memoria/internal/filestore"
	"github.com/nkiryanov/memoria/internal/handlers"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/repository/postgres"
	"github.com/nkiryanov/memoria/internal/service/auth"
	"github.com/nkiryanov/memoria/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/memoria/internal/service/cleanup"
	"github.com/nkiryanov/memoria/internal/service/memory"
	"github.com/nkiryanov/memoria/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger    logger.Logger
	pool      *pgxpool.Pool
	scheduler *cron.Cron
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	files, err := newFileStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error while initializing file storage. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey, TTL: c.TokenTTL})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(storage)
	memoryService := memory.NewService(storage, files)

	// Schedule revoked tokens pruning
	scheduler := cron.New()
	cleanupService := cleanup.NewService(storage.Revoked(), logger)
	if _, err := cleanupService.Schedule(scheduler, c.PruneSchedule); err != nil {
		pool.Close()
		return nil, err
	}

	router := handlers.NewRouter(
		authService,
		userService,
		memoryService,
		logger,
		handlers.RouterConfig{
			RequestTimeout: c.RequestTimeout,
			AllowedOrigins: c.CORSOrigins,
		},
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		logger:     logger,
		pool:       pool,
		scheduler:  scheduler,
	}, nil
}

func newFileStore(ctx context.Context, c *Config) (filestore.Store, error) {
	switch c.StorageBackend {
	case filestore.BackendS3:
		return filestore.NewS3Store(ctx, c.S3)
	case filestore.BackendDisk:
		return filestore.NewDiskStore(c.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// Run starts http server and scheduler, closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")

		// Wait running prune job
		select {
		case <-s.scheduler.Stop().Done():
		case <-timeoutCtx.Done():
		}
		s.logger.Info("Scheduler stopped")
		close(idleConnsClosed)
	}()

	s.scheduler.Start()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
