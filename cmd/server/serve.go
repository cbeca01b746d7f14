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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"baseline_academy/internal/api"
	"baseline_academy/internal/app/service"
	"baseline_academy/internal/common/security"
	"baseline_academy/internal/domain/repository"
	"baseline_academy/internal/platform/cache"
	"baseline_academy/internal/platform/config"
	"baseline_academy/internal/platform/database"
	"baseline_academy/internal/platform/logging"
	"baseline_academy/internal/platform/metrics"
)

const shutdownTimeout = 15 * time.Second

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	}
}

type repositories struct {
	users    repository.UserRepository
	students repository.StudentRepository
	fees     repository.FeeRepository
	homework repository.HomeworkRepository
}

func memoryRepositories() repositories {
	return repositories{
		users:    repository.NewMemoryUserRepository(),
		students: repository.NewMemoryStudentRepository(),
		fees:     repository.NewMemoryFeeRepository(),
		homework: repository.NewMemoryHomeworkRepository(),
	}
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		users:    repository.NewPgUserRepository(pool),
		students: repository.NewPgStudentRepository(pool),
		fees:     repository.NewPgFeeRepository(pool),
		homework: repository.NewPgHomeworkRepository(pool),
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger := logging.Setup("baseline-academy", cfg.ServiceVersion, cfg.LogFormat, cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := memoryRepositories()
	if cfg.UsesPostgres() {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			logging.LogError(logger, "migrations failed", err)
			return err
		}
		pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logging.LogError(logger, "database unavailable", err)
			return err
		}
		defer pool.Close()
		repos = postgresRepositories(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	m := metrics.New()
	authOpts := []service.AuthOption{service.WithLogger(logger), service.WithMetrics(m)}
	if cfg.UsesRedis() {
		rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, logger)
		if err != nil {
			logging.LogError(logger, "redis unavailable", err)
			return err
		}
		defer rdb.Close()
		authOpts = append(authOpts, service.WithLimiter(cache.NewAttemptLimiter(rdb, cfg.LoginMaxFailures, cfg.LoginLockout)))
	}

	if cfg.SeedAdmin {
		if err := service.SeedAdmin(ctx, repos.users, logger); err != nil {
			logging.LogError(logger, "seeding admin failed", err)
			return err
		}
	}

	tokens := security.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
	svc := api.Services{
		Auth:      service.NewAuthService(repos.users, security.NewPasswordHasher(cfg.BcryptCost), tokens, authOpts...),
		Students:  service.NewStudentService(repos.students, repos.fees),
		Fees:      service.NewFeeService(repos.fees, repos.students),
		Homework:  service.NewHomeworkService(repos.homework),
		Dashboard: service.NewDashboardService(repos.students, repos.fees, repos.homework),
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(svc, api.RouterConfig{
			Tokens:      tokens,
			Metrics:     m,
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", cfg.HTTPAddr, err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func migrateUp(databaseURL string) error {
	m, err := database.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	return errors.Join(m.Up(), m.Close())
}
