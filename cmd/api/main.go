package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tasktrack/tasktrack-go/internal/config"
	"github.com/tasktrack/tasktrack-go/internal/handler"
	"github.com/tasktrack/tasktrack-go/internal/repository"
	"github.com/tasktrack/tasktrack-go/internal/repository/memory"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, db, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(svc, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// buildServices picks the storage backend. Without DATABASE_DSN everything
// lives in process memory and is lost on restart.
func buildServices(ctx context.Context, cfg config.Config) (handler.Services, *sql.DB, error) {
	if cfg.DatabaseDSN == "" {
		slog.Warn("DATABASE_DSN not set, using in-memory storage")
		store := memory.New()
		return newServices(cfg, store.Users(), store.Projects(), store.Tasks()), nil, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return handler.Services{}, nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return handler.Services{}, nil, err
	}
	slog.Info("database ready")

	return newServices(cfg,
		repository.NewUserRepository(db),
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
	), db, nil
}

func newServices(cfg config.Config, users service.UserStore, projects service.ProjectStore, tasks service.TaskStore) handler.Services {
	return handler.Services{
		Auth:     service.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpiry),
		Projects: service.NewProjectService(projects),
		Tasks:    service.NewTaskService(projects, tasks),
	}
}
