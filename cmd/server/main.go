package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/storemanager/backend/internal/application/catalog"
	reportapp "github.com/storemanager/backend/internal/application/report"
	tradeapp "github.com/storemanager/backend/internal/application/trade"
	"github.com/storemanager/backend/internal/infrastructure/auth"
	"github.com/storemanager/backend/internal/infrastructure/config"
	"github.com/storemanager/backend/internal/infrastructure/event"
	"github.com/storemanager/backend/internal/infrastructure/logger"
	"github.com/storemanager/backend/internal/infrastructure/persistence"
	"github.com/storemanager/backend/internal/infrastructure/storage"
	"github.com/storemanager/backend/internal/interfaces/http/handler"
	"github.com/storemanager/backend/internal/interfaces/http/middleware"
	"github.com/storemanager/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	termRepo := persistence.NewGormTermRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	salesRepo := persistence.NewGormSalesRepository(db.DB)

	// Order status changes are streamed to Kafka when configured
	var orderPublisher tradeapp.OrderEventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := event.NewKafkaOrderEventPublisher(cfg.Kafka)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Error closing Kafka publisher", zap.Error(err))
			}
		}()
		orderPublisher = kafkaPublisher
		log.Info("Kafka order event publisher enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	// Product images live in S3-compatible object storage when configured
	var imageResolver catalogapp.ImageResolver
	if cfg.Storage.Enabled {
		s3Resolver, err := storage.NewS3ImageResolver(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		imageResolver = s3Resolver
		log.Info("S3 image resolver enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo, termRepo, imageResolver,
		catalogapp.ProductServiceConfig{
			PermalinkBase:     cfg.Store.PermalinkBase,
			DefaultListStatus: cfg.Store.DefaultProductStatus,
			LowStockThreshold: cfg.Store.LowStockThreshold,
			Timezone:          cfg.Store.Timezone,
		})
	orderService := tradeapp.NewOrderService(orderRepo, orderPublisher, log,
		tradeapp.OrderServiceConfig{Timezone: cfg.Store.Timezone})
	reportService := reportapp.NewReportService(salesRepo,
		reportapp.ReportServiceConfig{
			Timezone:      cfg.Store.Timezone,
			PriceDecimals: int32(cfg.Store.PriceDecimals),
		})

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	handlers := router.Handlers{
		Products: handler.NewProductHandler(productService),
		Orders:   handler.NewOrderHandler(orderService, cfg.Store.Location()),
		Reports:  handler.NewReportHandler(reportService, productService),
		System:   handler.NewSystemHandler(db, version),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first:
	// request id, panic recovery, request logging, security headers,
	// CORS, body size limit, rate limiting, then JWT authentication.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		store := rateLimitStore(cfg, log)
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Store:      store,
			Limit:      cfg.HTTP.RateLimitRequests,
			Window:     cfg.HTTP.RateLimitWindow,
			JWTService: jwtService,
			Logger:     log,
		})
		engine.Use(rateLimiter.Middleware())
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
		},
		Logger: log,
	}))

	// API routes
	r := router.NewRouter(engine, handlers, router.WithAPIVersion("v1"))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// rateLimitStore picks Redis when configured, otherwise an in-process store.
// The in-memory fallback only limits correctly on a single instance.
func rateLimitStore(cfg *config.Config, log *zap.Logger) middleware.CounterStore {
	if !cfg.Redis.Enabled {
		log.Info("Rate limiting backed by in-memory store")
		return middleware.NewMemoryCounterStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info("Rate limiting backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	return middleware.NewRedisCounterStore(client)
}
