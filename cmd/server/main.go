package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/core/codegen"
	"github.com/wadjakorntonsri/tinylink/pkg/core/services"
	"github.com/wadjakorntonsri/tinylink/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// Initialize Repository
	repo, err := sqldb.NewRepository(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	codes, err := codegen.New(codegen.DefaultLength)
	if err != nil {
		return err
	}

	// Initialize Services
	links := services.NewLinkService(repo, codes, logger)
	redirects := services.NewRedirectService(repo, logger)

	// Initialize Router
	mux := handler.NewRouter(cfg, links, redirects, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Operations may run concurrently, so the database closes only after the server drained.
	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return repo.Close()
		},
	})

	select {
	case err := <-serverErr:
		_ = repo.Close()
		return err
	case code := <-wait:
		logger.Info("server stopped", "exit_code", code)
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}
