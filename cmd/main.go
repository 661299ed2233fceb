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

	_ "github.com/lib/pq"

	"github.com/khaleegram/earena/adjudicator"
	"github.com/khaleegram/earena/config"
	"github.com/khaleegram/earena/db"
	"github.com/khaleegram/earena/handlers"
	"github.com/khaleegram/earena/live"
	"github.com/khaleegram/earena/middleware"
	"github.com/khaleegram/earena/repositories"
	"github.com/khaleegram/earena/routes"
	"github.com/khaleegram/earena/services"
	"github.com/khaleegram/earena/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		BucketName:      cfg.R2.BucketName,
		PublicBaseURL:   cfg.R2.PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("evidence storage initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live event hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	captainStatsRepo := repositories.NewPostgresCaptainStatsRepository(dbConn)
	logger.Info("repositories initialized")

	adjClient, err := adjudicator.NewHTTPClient(adjudicator.HTTPClientConfig{
		BaseURL: cfg.Adjudicator.BaseURL,
		APIKey:  cfg.Adjudicator.APIKey,
		Timeout: cfg.Adjudicator.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize adjudicator client", slog.Any("error", err))
		os.Exit(1)
	}

	var notifier services.Notifier
	if cfg.SMTP.Host != "" {
		notifier = services.NewEmailNotifier(services.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Pass:     cfg.SMTP.Pass,
			From:     cfg.SMTP.From,
			OpsInbox: cfg.SMTP.OpsInbox,
		}, logger)
	} else {
		notifier = services.NewLogNotifier(logger)
	}

	lifecycleService := services.NewMatchLifecycleService(
		dbConn, matchRepo, tournamentRepo, teamRepo, standingRepo, captainStatsRepo,
		adjClient, notifier, hub, logger,
	)
	progressionService := services.NewStageProgressionService(dbConn, tournamentRepo, matchRepo, hub, logger)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, teamRepo, matchRepo, standingRepo, logger)
	teamService := services.NewTeamService(dbConn, teamRepo, tournamentRepo, logger)
	logger.Info("services initialized")

	sweeper := services.NewOverdueSweeper(matchRepo, lifecycleService, logger, cfg.SweepInterval)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweepCtx)

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.InitRoutes(auth, routes.Handlers{
		Tournament: handlers.NewTournamentHandler(tournamentService, progressionService),
		Team:       handlers.NewTeamHandler(teamService),
		Match:      handlers.NewMatchHandler(lifecycleService),
		Evidence:   handlers.NewEvidenceHandler(uploader),
		WebSocket:  handlers.NewWebSocketHandler(hub, logger),
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stopSweeper()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
