package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	c := NewConfig()

	if err := c.LoadDotEnv(getwd); err != nil {
		return fmt.Errorf("can't load .env file. Err: %w", err)
	}
	if err := c.LoadEnv(getenv); err != nil {
		return err
	}
	if err := c.ParseFlags(args); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	// Cancel context on SIGTERM
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServerApp(ctx, c)
	if err != nil {
		return fmt.Errorf("can't initialize app, sorry. Err: %w", err)
	}

	if err := srv.Run(ctx); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error. Err: %w", err)
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		slog.Error("memoria stopped", "error", err.Error())
		os.Exit(1)
	}
}
