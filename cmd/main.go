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

	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/config"
	"github.com/Faaz345/playsplit/db"
	"github.com/Faaz345/playsplit/gateway"
	"github.com/Faaz345/playsplit/handlers"
	"github.com/Faaz345/playsplit/identity"
	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/realtime"
	"github.com/Faaz345/playsplit/redisstore"
	"github.com/Faaz345/playsplit/repositories"
	api "github.com/Faaz345/playsplit/routes"
	"github.com/Faaz345/playsplit/scheduler"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/storage"
)

const version = "1.0.0"

//	@title						PlaySplit API
//	@version					1.0
//	@description				Организация футбольных матчей, деление стоимости и оплата через Razorpay.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	handlers.ExposeErrorDetails(cfg.IsDevelopment())
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("env", cfg.AppEnv),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.New()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, db.DefaultPoolConfig(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.RunMigrations {
		if err := db.Migrate(dbConn, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Redis необязателен: без него нет лимитов, кросс-инстансной рассылки и блокировок задач
	var redisClient *redisstore.Client
	if cfg.Redis.Enabled() {
		redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
		redisClient, err = redisstore.New(redisCtx, redisstore.Config{
			Address:   cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
		redisCancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis connection", slog.Any("error", err))
			}
		}()
		logger.Info("redis connection established", slog.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set: rate limiting and cross-instance broadcasts are disabled")
	}

	// Инициализация WebSocket Hub
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	var broadcaster realtime.Broadcaster = hub
	if redisClient != nil {
		fanout := realtime.NewRedisFanout(hub, redisClient, logger)
		go fanout.Run(ctx)
		broadcaster = fanout
	}
	logger.Info("WebSocket Hub started")

	var verifier identity.Verifier
	if cfg.FirebaseProjectID != "" {
		verifier = identity.NewFirebaseVerifier(cfg.FirebaseProjectID, "", clk, logger)
		logger.Info("using Firebase token verification", slog.String("project_id", cfg.FirebaseProjectID))
	} else {
		verifier = identity.NewHMACVerifier(cfg.JWTSecretKey, clk)
		logger.Warn("FIREBASE_PROJECT_ID not set: verifying HS256 tokens with JWT_SECRET_KEY")
	}

	// без ключей клиент отвечает ErrNotConfigured на каждый вызов
	paymentGateway := gateway.NewRazorpayClient(gateway.Config{
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		BaseURL:       cfg.Razorpay.BaseURL,
	}, logger)
	if !cfg.Razorpay.Enabled() {
		logger.Warn("Razorpay credentials not set: online payments are disabled")
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	r2Config := storage.R2Config(cfg.R2)
	if r2Config.Configured() {
		uploader, err = storage.NewR2Uploader(ctx, r2Config)
		if err != nil {
			return fmt.Errorf("initialize R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured: avatar uploads are disabled")
	}

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	paymentRepo := repositories.NewPostgresPaymentRepository(dbConn)
	logger.Info("Repositories initialized")

	var idempotency services.IdempotencyStore
	if redisClient != nil {
		idempotency = redisClient
	}

	// Инициализация сервисов
	matchService := services.NewMatchService(matchRepo, userRepo, broadcaster, clk, logger, cfg.ClientURL)
	paymentService := services.NewPaymentService(
		paymentRepo,
		matchRepo,
		userRepo,
		matchService,
		paymentGateway,
		idempotency,
		broadcaster,
		clk,
		logger,
		cfg.ClientURL,
	)
	userService := services.NewUserService(userRepo, matchRepo, paymentRepo, clk, logger, cfg.ClientURL)
	authService := services.NewAuthService(verifier, userRepo, matchRepo, uploader, clk, logger)
	adminService := services.NewAdminService(userRepo, matchRepo, paymentRepo, matchService, clk, logger, cfg.ClientURL)
	logger.Info("Services initialized")

	// Запуск планировщика напоминаний и истечения платежей
	jobs, err := scheduler.New(scheduler.Config{
		ReminderInterval: cfg.ReminderInterval,
		ExpiryInterval:   cfg.PaymentExpiryInterval,
	}, matchService, paymentService, redisClient, logger)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	jobs.Start()
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			logger.Error("scheduler shutdown failed", slog.Any("error", err))
		}
	}()

	healthChecks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return db.Ping(ctx, dbConn) },
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient.Ping
	}

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Match:     handlers.NewMatchHandler(matchService),
		Payment:   handlers.NewPaymentHandler(paymentService),
		User:      handlers.NewUserHandler(userService),
		Admin:     handlers.NewAdminHandler(adminService),
		WebSocket: handlers.NewWebSocketHandler(hub, matchService, cfg.AllowedOrigins, logger),
		Health:    handlers.NewHealthHandler(version, healthChecks),
	}
	logger.Info("HTTP handlers initialized")

	opts := api.Options{
		Authenticator: authService,
		GlobalLimit: middleware.RateLimitRule{
			Name:   "global",
			Limit:  cfg.RateLimitRequests,
			Window: cfg.RateLimitWindow,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if redisClient != nil {
		opts.Limiter = redisClient
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, opts)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
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
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
