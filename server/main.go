package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourbook/api/routes"
	"tourbook/internal/auth"
	"tourbook/internal/notifications"
	"tourbook/internal/payments"
	"tourbook/internal/schema"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"
	"tourbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	appLogger = logger.NewWithWriter(os.Stdout, cfg.LogLevel, !cfg.IsDevelopment())
	logger.SetDefault(appLogger)

	appLogger.Info("Starting tourbook",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := schema.Migrate(db.GetPostgreSQL()); err != nil {
		appLogger.Error("failed to migrate", slog.Any("error", err))
		os.Exit(1)
	}

	// Booking lifecycle events
	publisher, stopConsumer := setupNotifications(cfg, db)
	defer func() {
		stopConsumer()
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing publisher", slog.Any("error", err))
		}
	}()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(cfg, db, publisher, rateLimiter)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.Bool("payments", cfg.PaymentsEnabled()),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// setupNotifications returns the booking event publisher and a stop func for
// the email consumer. Without Kafka, events are dropped.
func setupNotifications(cfg *config.Config, db *database.DB) (notifications.Publisher, func()) {
	appLogger := logger.GetDefault()
	noop := func() {}

	if !cfg.Kafka.Enabled {
		appLogger.Info("Kafka disabled, booking notifications are not sent")
		return notifications.NoopPublisher{}, noop
	}

	publisher, err := notifications.NewKafkaPublisher(
		notifications.DefaultKafkaProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.BookingTopic),
	)
	if err != nil {
		appLogger.Error("Failed to create Kafka publisher, continuing without notifications", slog.Any("error", err))
		return notifications.NoopPublisher{}, noop
	}

	notifier := notifications.NewNotifier(
		auth.NewRecipientLookup(auth.NewRepository(db.GetPostgreSQL())),
		notifications.NewEmailSender(notifications.NewSMTPConfig(cfg.Email)),
	)
	consumer, err := notifications.NewKafkaConsumer(
		notifications.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.BookingTopic),
		notifier,
	)
	if err != nil {
		appLogger.Error("Failed to create Kafka consumer, events will queue until one runs", slog.Any("error", err))
		return publisher, noop
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx, cfg.Kafka.Workers)
	appLogger.Info("Notification consumer started", slog.Int("workers", cfg.Kafka.Workers))

	return publisher, func() {
		cancel()
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
		}
	}
}

func setupRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(logger.RequestLogger(appLogger), gin.Recovery())
	if cfg.MetricsEnabled {
		engine.Use(metrics.GinMiddleware())
	}

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, cfg.GetAPIBasePath()+payments.WebhookPath))
	}

	routes.NewRouter(cfg, db, publisher).SetupRoutes(engine)
	return engine
}
