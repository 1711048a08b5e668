package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/sokohub/backend/internal/application/catalog"
	identityapp "github.com/sokohub/backend/internal/application/identity"
	reportapp "github.com/sokohub/backend/internal/application/report"
	"github.com/sokohub/backend/internal/infrastructure/auth"
	"github.com/sokohub/backend/internal/infrastructure/config"
	"github.com/sokohub/backend/internal/infrastructure/event"
	"github.com/sokohub/backend/internal/infrastructure/logger"
	"github.com/sokohub/backend/internal/infrastructure/persistence"
	"github.com/sokohub/backend/internal/infrastructure/storage"
	"github.com/sokohub/backend/internal/infrastructure/telemetry"
	"github.com/sokohub/backend/internal/interfaces/http/handler"
	"github.com/sokohub/backend/internal/interfaces/http/middleware"
	"github.com/sokohub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/sokohub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			SokoHub Marketplace API
//	@version		1.0
//	@description	Multi-vendor marketplace backend: vendor listings, tiered visibility, and contact reveal tracking

//	@contact.name	API Support
//	@contact.url	https://github.com/sokohub/backend
//	@contact.email	support@sokohub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting SokoHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Traces, metrics and logs all flow to the same OTEL collector
	// endpoint when telemetry is on.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	}

	// Continuous profiling is best effort; the server runs without it.
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
		ProfileMutexCount: true,
		ProfileBlockCount: true,
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler, continuing without profiling", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
	}

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Query logging goes through zap at the level derived from the app
	// log level.
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Per-query tracing and pool gauges on the same gorm handle.
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log); err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	registrationRepo := persistence.NewGormRegistrationRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Marketplace activity metrics with periodic catalog gauges
	marketplaceMetrics, err := telemetry.NewMarketplaceMetrics(telemetry.MarketplaceMetricsConfig{
		Meter:           meterProvider.Meter("marketplace"),
		Logger:          log,
		CatalogProvider: telemetry.NewGormCatalogMetricsProvider(db.DB),
	})
	if err != nil {
		log.Warn("Failed to initialize marketplace metrics", zap.Error(err))
	} else {
		marketplaceMetrics.StartPeriodicCollection(context.Background(), 0)
		defer marketplaceMetrics.Stop()
	}

	// Token issuing and revocation. Redis backs the blacklist when
	// configured so logout survives restarts; the in-memory fallback is
	// for single-instance development setups.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = redisBlacklist
			log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Could not verify storage bucket", zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
		log.Info("S3 object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	default:
		objectStorage = storage.NewStubObjectStorage()
		log.Info("Using in-memory stub object storage")
	}

	// Start the in-process event bus and subscribe the activity log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	authService := identityapp.NewAuthService(userRepo, profileRepo, registrationRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	profileService := identityapp.NewProfileService(userRepo, profileRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, userRepo, profileRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	imageService := catalogapp.NewImageService(productRepo, objectStorage, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, profileRepo, log)

	authService.SetEventPublisher(eventBus)
	profileService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	categoryService.SetEventPublisher(eventBus)

	if marketplaceMetrics != nil {
		productService.SetMarketplaceMetrics(marketplaceMetrics)
	}

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	productHandler := handler.NewProductHandler(productService, imageService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	adminHandler := handler.NewAdminHandler(dashboardService, profileService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// ClientIP honors X-Forwarded-For only from these proxies, which
	// the rate limiter depends on.
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order matters: the request ID must exist before the
	// logger runs, recovery must wrap everything below it, and rate
	// limiting sits last so rejected requests are still logged.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Stricter rate limit on credential endpoints
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRateLimit := middleware.AuthRateLimit(authLimiter)
		engine.POST("/api/v1/auth/login", authRateLimit)
		engine.POST("/api/v1/auth/register", authRateLimit)
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	// Health stays outside /api/v1 so uptime checks survive version bumps.
	engine.GET("/health", healthHandler(db, log))

	if cfg.Swagger.Enabled {
		swaggerCfg := middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(swaggerCfg, middleware.JWTAuthMiddleware(jwtService)),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for API routes. Public catalog reads are skip
	// paths; a valid token on them still populates claims so browse
	// endpoints recognize signed-in callers.
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Each handler wires its own route group under /api/v1.
	r.Register(authHandler).
		Register(profileHandler).
		Register(productHandler).
		Register(categoryHandler).
		Register(adminHandler).
		Register(systemHandler)

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

	// Drain in-flight requests for up to 30s on SIGINT/SIGTERM.
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

// healthHandler reports database reachability and, when the pool is
// up, its connection counts.
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.Stats(); err == nil {
			body["pool"] = gin.H{
				"open":    stats.OpenConnections,
				"in_use":  stats.InUse,
				"idle":    stats.Idle,
				"waiting": stats.WaitCount,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
