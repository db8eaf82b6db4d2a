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

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/landrytower/liprobakin/config"
	"github.com/landrytower/liprobakin/db"
	"github.com/landrytower/liprobakin/handlers"
	"github.com/landrytower/liprobakin/live"
	"github.com/landrytower/liprobakin/repositories"
	api "github.com/landrytower/liprobakin/routes"
	"github.com/landrytower/liprobakin/services"
	"github.com/landrytower/liprobakin/storage"
	"github.com/landrytower/liprobakin/translate"
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	// Переводчик новостей опционален: без эндпоинта статьи остаются одноязычными.
	var translator translate.Translator
	if cfg.TranslateEndpoint != "" {
		translator, err = translate.NewClient(translate.ClientConfig{
			Endpoint: cfg.TranslateEndpoint,
			APIKey:   cfg.TranslateAPIKey,
		})
		if err != nil {
			logger.Error("failed to initialize translate client", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("translate client initialized")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	verificationRepo := repositories.NewPostgresVerificationRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	directoryRepo := repositories.NewPostgresDirectoryRepository(dbConn)
	logger.Info("Repositories initialized")

	clock := clockwork.NewRealClock()

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, teamRepo, verificationRepo)
	teamService := services.NewTeamService(teamRepo, rosterRepo, auditRepo, cloudflareUploader)
	gameService := services.NewGameService(dbConn, gameRepo, teamRepo, auditRepo, cloudflareUploader, wsHub, clock)
	standingsService := services.NewStandingsService(gameRepo, teamRepo, cloudflareUploader)
	verificationService := services.NewVerificationService(
		dbConn,
		verificationRepo,
		userRepo,
		rosterRepo,
		teamRepo,
		adminRepo,
		auditRepo,
		cloudflareUploader,
		clock,
	)
	adminService := services.NewAdminService(adminRepo, auditRepo, teamRepo, gameRepo, userRepo, verificationRepo, newsRepo)
	newsService := services.NewNewsService(newsRepo, auditRepo, cloudflareUploader, translator, logger)
	directoryService := services.NewDirectoryService(directoryRepo, cloudflareUploader)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:         handlers.NewUserHandler(userService),
		Team:         handlers.NewTeamHandler(teamService, adminService),
		Game:         handlers.NewGameHandler(gameService, adminService),
		Standings:    handlers.NewStandingsHandler(standingsService),
		Verification: handlers.NewVerificationHandler(verificationService),
		Admin:        handlers.NewAdminHandler(adminService, cfg.JWTSecretKey),
		News:         handlers.NewNewsHandler(newsService, adminService),
		Directory:    handlers.NewDirectoryHandler(directoryService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := api.InitRoutes(h, adminService, []byte(cfg.JWTSecretKey))
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
