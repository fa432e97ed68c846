package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/kicker-tournament/brackets"
	"github.com/Dosada05/kicker-tournament/config"
	"github.com/Dosada05/kicker-tournament/db"
	"github.com/Dosada05/kicker-tournament/handlers"
	"github.com/Dosada05/kicker-tournament/repositories"
	api "github.com/Dosada05/kicker-tournament/routes"
	"github.com/Dosada05/kicker-tournament/services"
	"github.com/Dosada05/kicker-tournament/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("database", cfg.DatabaseURL != ""),
		slog.Bool("auth", cfg.AuthEnabled()),
		slog.Bool("archive", cfg.R2.Enabled()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot store
	var snapshotRepo repositories.SnapshotRepository
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer closeDB(dbConn, logger)
		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		snapshotRepo = repositories.NewPostgresSnapshotRepository(dbConn, logger)
		logger.Info("database connection established")
	} else {
		snapshotRepo = repositories.NewMemorySnapshotRepository(logger)
		logger.Warn("DATABASE_URL not set, tournaments are kept in memory only")
	}

	wsHub := brackets.NewHub(logger)

	serviceOpts := []services.TournamentServiceOption{services.WithNotifier(wsHub)}
	if cfg.R2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		if err := uploader.Ping(ctx); err != nil {
			logger.Warn("Cloudflare R2 bucket check failed, archiving may not work", slog.Any("error", err))
		}
		serviceOpts = append(serviceOpts, services.WithArchiver(storage.NewSnapshotArchive(uploader)))
		logger.Info("Cloudflare R2 archive initialized", slog.String("bucket", cfg.R2.BucketName))
	}

	tournamentService := services.NewTournamentService(
		snapshotRepo,
		brackets.NewSingleEliminationGenerator(),
		logger,
		serviceOpts...,
	)
	authService := services.NewAuthService(cfg.OrganizerPasswordHash, cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, logger)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		JWTSecret:      []byte(cfg.JWTSecretKey),
	}, authHandler, tournamentHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}

func closeDB(dbConn *sql.DB, logger *slog.Logger) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}
