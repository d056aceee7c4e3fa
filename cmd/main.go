package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	adminapp "github.com/muhammadheryan/landing-api/application/admin"
	contactapp "github.com/muhammadheryan/landing-api/application/contact"
	"github.com/muhammadheryan/landing-api/cmd/config"
	redisclient "github.com/muhammadheryan/landing-api/cmd/redis"
	_ "github.com/muhammadheryan/landing-api/docs"
	"github.com/muhammadheryan/landing-api/repository/migrations"
	redisRepo "github.com/muhammadheryan/landing-api/repository/redis"
	submissionRepo "github.com/muhammadheryan/landing-api/repository/submission"
	txRepo "github.com/muhammadheryan/landing-api/repository/tx"
	"github.com/muhammadheryan/landing-api/thirdparty/mailgun"
	"github.com/muhammadheryan/landing-api/thirdparty/rabbitmq"
	"github.com/muhammadheryan/landing-api/transport"
	"github.com/muhammadheryan/landing-api/utils/logger"
	"github.com/muhammadheryan/landing-api/utils/ratelimit"
	validatorx "github.com/muhammadheryan/landing-api/utils/validator"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// @title LANDING API
// @version 1.0
// @description Contact intake and admin API for the marketing site
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	skipMigrations := pflag.Bool("skip-migrations", false, "start without applying database migrations")
	pflag.Parse()

	// Load configuration from environment variables
	cfg := config.Load(*envFile)

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		// fallback to standard log if zap init fails
		panic(err)
	}
	defer logger.Close()

	validatorx.Init()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	defer db.Close()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if !*skipMigrations {
		if err := migrations.Run(context.Background(), db.DB); err != nil {
			logger.Fatal("err run migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}
	if *migrateOnly {
		return
	}

	// Initialize Redis client (optional)
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Initialize repositories
	SubmissionRepo := submissionRepo.NewSubmissionRepository(db)
	TxRepo := txRepo.NewTxRepository(db)
	RedisRepo := redisRepo.NewRepository()

	limiter := newLimiter(cfg, RedisRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, closeNotifier := newNotifier(ctx, cfg)
	defer closeNotifier()

	// Initialize application layers
	ContactApp := contactapp.NewContactApp(cfg, limiter, SubmissionRepo, notifier)
	AdminApp := adminapp.NewAdminApp(cfg, TxRepo, SubmissionRepo, RedisRepo)

	httpTransport := transport.NewTransport(cfg, ContactApp, AdminApp, db)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Contact.NotifyTimeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("err server shutdown", zap.Error(err))
	}
}

// newLimiter picks the shared Redis counter when asked for and available,
// the in-process window otherwise.
func newLimiter(cfg *config.Config, repo redisRepo.Repository) ratelimit.Limiter {
	if cfg.Contact.RateLimitBackend == "redis" {
		if repo.Available() {
			logger.Info("rate limiter backend", zap.String("backend", "redis"))
			return ratelimit.NewRedis(repo, cfg.Contact.RateLimitWindow, cfg.Contact.RateLimitMax)
		}
		logger.Warn("RATE_LIMIT_BACKEND=redis but redis is not configured, using memory")
	}
	logger.Info("rate limiter backend", zap.String("backend", "memory"))
	return ratelimit.NewMemory(cfg.Contact.RateLimitWindow, cfg.Contact.RateLimitMax)
}

// newNotifier returns nil when mail is not configured, which disables
// notifications. With NOTIFY_VIA_QUEUE the mail is sent by a queue consumer
// running in this process.
func newNotifier(ctx context.Context, cfg *config.Config) (contactapp.Notifier, func()) {
	noop := func() {}
	if !cfg.Mail.Enabled() {
		logger.Warn("mail is not configured, contact notifications are disabled")
		return nil, noop
	}

	mailer := mailgun.NewClient(cfg.Mail, &http.Client{Timeout: cfg.Contact.NotifyTimeout})
	if !cfg.RabbitMQ.NotifyViaQueue || !cfg.RabbitMQ.Enabled() {
		return mailer, noop
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("err connect rabbitmq publisher", zap.Error(err))
	}
	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ, mailer, cfg.Contact.NotifyTimeout)
	if err != nil {
		logger.Fatal("err connect rabbitmq consumer", zap.Error(err))
	}
	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("err start rabbitmq consumer", zap.Error(err))
	}
	logger.Info("contact notifications are queued through rabbitmq")

	return publisher, func() {
		_ = consumer.Close()
		_ = publisher.Close()
	}
}
