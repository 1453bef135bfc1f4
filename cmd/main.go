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

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/config"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/db"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/handlers"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
	api "github.com/sitegestaodetorneios-hue/afsincroniza-eventos/routes"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/services"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Блокировка прохода продвижения (без Redis - last-write-wins)
	var locker services.TournamentLocker = services.NoopLocker{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		locker = services.NewRedisTournamentLocker(redisClient, cfg.ResolveLockTTL)
		logger.Info("progression lock enabled", slog.Duration("ttl", cfg.ResolveLockTTL))
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	membershipRepo := repositories.NewPostgresGroupMembershipRepository(dbConn)
	eventRepo := repositories.NewPostgresDisciplinaryEventRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)

	standingsService := services.NewStandingsService(tournamentRepo, matchRepo, membershipRepo, eventRepo, teamRepo, logger)
	matchService := services.NewMatchService(tournamentRepo, matchRepo, wsHub, logger)
	bracketService := services.NewBracketService(tournamentRepo, matchRepo, wsHub, logger)

	var snapshots services.SnapshotService
	if cfg.R2Enabled() {
		publisher, err := storage.NewCloudflareR2Publisher(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 publisher", slog.Any("error", err))
			os.Exit(1)
		}
		snapshots = services.NewSnapshotService(publisher, standingsService, matchService)
		logger.Info("Cloudflare R2 snapshot publishing enabled")
	}

	progressionService := services.NewProgressionService(services.ProgressionDeps{
		TournamentRepo: tournamentRepo,
		MatchRepo:      matchRepo,
		MembershipRepo: membershipRepo,
		EventRepo:      eventRepo,
		Locker:         locker,
		Notifier:       wsHub,
		Snapshots:      snapshots,
		Logger:         logger,
	})
	logger.Info("Services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Progression: handlers.NewProgressionHandler(progressionService, standingsService),
		Bracket:     handlers.NewBracketHandler(bracketService),
		Match:       handlers.NewMatchHandler(matchService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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
