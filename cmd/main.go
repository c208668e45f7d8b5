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

	"github.com/courtside/padel-system/cache"
	"github.com/courtside/padel-system/config"
	"github.com/courtside/padel-system/db"
	"github.com/courtside/padel-system/handlers"
	"github.com/courtside/padel-system/repositories"
	"github.com/courtside/padel-system/rounds"
	api "github.com/courtside/padel-system/routes"
	"github.com/courtside/padel-system/services"
	"github.com/courtside/padel-system/storage"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
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

	// Redis опционален: без него live-кэш просто выключен.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to ping redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		logger.Info("redis connection established")
	}
	liveCache := cache.New(redisClient, cfg.CacheTTL, logger)

	// Загрузчик файлов (Cloudflare R2) тоже опционален.
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// WebSocket Hub
	wsHub := rounds.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	clock := clockwork.NewRealClock()

	// Репозитории
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	historyRepo := repositories.NewPostgresRatingHistoryRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	// Сервисы
	jwtSecret := []byte(cfg.JWTSecretKey)
	authService := services.NewAuthService(playerRepo, jwtSecret, clock)
	playerService := services.NewPlayerService(playerRepo, historyRepo, uploader)
	matchService := services.NewMatchService(dbConn, matchRepo, playerRepo, historyRepo, clock, logger)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		registrationRepo,
		roundRepo,
		standingRepo,
		playerRepo,
		historyRepo,
		liveCache,
		wsHub,
		uploader,
		clock,
		logger,
	)
	logger.Info("services initialized")

	// Фоновый свип: принудительное подтверждение просроченных подач счёта.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		logger.Info("confirmation sweep started", slog.Duration("interval", cfg.SweepInterval))

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := matchService.SweepExpiredConfirmations(sweepCtx); err != nil {
					logger.Error("confirmation sweep failed", slog.Any("error", err))
				}
				if err := tournamentService.CloseExpiredRegistrations(sweepCtx); err != nil {
					logger.Error("registration sweep failed", slog.Any("error", err))
				}
			}
		}
	}()

	// HTTP-обработчики и маршруты
	router := api.InitRoutes(api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(playerService),
		Match:      handlers.NewMatchHandler(matchService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService),
	}, jwtSecret)
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
		stopSweep()

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
