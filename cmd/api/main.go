// cmd/api/main.go
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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/caissepos/caisse-be/internal/adapters/db"
	redis_a "github.com/caissepos/caisse-be/internal/adapters/redis_adapter"
	"github.com/caissepos/caisse-be/internal/adapters/storage"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/core/services"
	"github.com/caissepos/caisse-be/internal/handlers"
	"github.com/caissepos/caisse-be/internal/handlers/middleware"
	"github.com/caissepos/caisse-be/internal/pkg/config"
	"github.com/caissepos/caisse-be/internal/pkg/logger"
	"github.com/caissepos/caisse-be/internal/pkg/metrics"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting caisse settlement engine",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database           ports.Database
	redisClient        *redis.Client
	redisCache         ports.CacheRepository
	asynqClient        *asynq.Client
	asynqInspector     *asynq.Inspector
	sessionService     *services.SessionService
	transactionService *services.TransactionsService
	returnService      *services.ReturnService
	sessionHandler     *handlers.SessionHandler
	transactionHandler *handlers.TransactionHandler
	returnHandler      *handlers.ReturnHandler
	healthHandler      *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize database connection
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisOpts := &redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	}

	redisClient := redis.NewClient(redisOpts)

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	// Initialize Asynq client
	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	deps.asynqClient = asynqClient

	asynqInspector := asynq.NewInspector(asynqRedisOpt)
	deps.asynqInspector = asynqInspector

	// Initialize repositories
	catalogRepo := db.NewCatalogRepository(database, logger)
	orderRepo := db.NewOrderRepository(database, logger)
	returnRepo := db.NewReturnRepository(database, logger)

	// Initialize services
	deps.sessionService = services.NewSessionService(
		catalogRepo,
		orderRepo,
		deps.redisCache,
		asynqClient,
		cfg.Pos.CatalogCacheTTL,
		logger,
	)
	deps.transactionService = services.NewTransactionsService(orderRepo, logger)
	deps.returnService = services.NewReturnService(returnRepo, orderRepo, logger)

	// Receipt archive access. The API only hands out download links; a till
	// without a bucket keeps working, minus the receipt endpoint.
	var receiptStore storage.StorageClient
	if cfg.AWS.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			logger.Warn("receipt archive unavailable, receipt links disabled",
				slog.String("error", err.Error()))
		} else {
			receiptStore = s3Store
		}
	}

	// Initialize handlers
	deps.sessionHandler = handlers.NewSessionHandler(deps.sessionService, logger)
	deps.transactionHandler = handlers.NewTransactionHandler(deps.transactionService, asynqClient, receiptStore, logger)
	deps.returnHandler = handlers.NewReturnHandler(deps.returnService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *logger.Logger) *http.Server {
	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.Recovery(slogger.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps, cfg)

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Checkout session endpoints
	mux.HandleFunc("POST "+apiV1+"/sessions", deps.sessionHandler.OpenSession)
	mux.HandleFunc("POST "+apiV1+"/sessions/resume", deps.sessionHandler.Resume)
	mux.HandleFunc("GET "+apiV1+"/sessions/{id}", deps.sessionHandler.GetSession)
	mux.HandleFunc("DELETE "+apiV1+"/sessions/{id}", deps.sessionHandler.CancelSession)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/scan", deps.sessionHandler.Scan)
	mux.HandleFunc("PUT "+apiV1+"/sessions/{id}/items/{productId}", deps.sessionHandler.SetQuantity)
	mux.HandleFunc("DELETE "+apiV1+"/sessions/{id}/items/{productId}", deps.sessionHandler.RemoveItem)
	mux.HandleFunc("DELETE "+apiV1+"/sessions/{id}/items", deps.sessionHandler.ClearCart)
	mux.HandleFunc("PUT "+apiV1+"/sessions/{id}/discount", deps.sessionHandler.SetDiscount)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/tenders", deps.sessionHandler.ApplyTender)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/vouchers", deps.sessionHandler.ApplyVoucher)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/commit", deps.sessionHandler.Commit)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/park", deps.sessionHandler.Park)

	// Transaction read endpoints
	mux.HandleFunc("GET "+apiV1+"/transactions", deps.transactionHandler.ListTransactions)
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}", deps.transactionHandler.GetTransaction)
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}/receipt", deps.transactionHandler.GetReceiptLink)
	mux.HandleFunc("GET "+apiV1+"/reports/day", deps.transactionHandler.DayReport)
	mux.HandleFunc("POST "+apiV1+"/exports/day", deps.transactionHandler.ExportDay)

	// Return endpoints
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}/sale-lines", deps.returnHandler.SaleLines)
	mux.HandleFunc("POST "+apiV1+"/transactions/{id}/returns", deps.returnHandler.RequestReturn)
	mux.HandleFunc("GET "+apiV1+"/transactions/{id}/returns", deps.returnHandler.ListReturns)
	mux.HandleFunc("DELETE "+apiV1+"/returns/{id}", deps.returnHandler.CancelReturn)

	// Metrics endpoint
	if cfg.Server.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
