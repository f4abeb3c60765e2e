package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/internal/cache"
	"github.com/eduforge/eduforge-api/internal/handlers"
	"github.com/eduforge/eduforge-api/internal/middleware"
	"github.com/eduforge/eduforge-api/internal/monitoring"
	"github.com/eduforge/eduforge-api/internal/repository"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/eduforge/eduforge-api/pkg/calendar"
	"github.com/eduforge/eduforge-api/pkg/db"
	"github.com/eduforge/eduforge-api/pkg/httpclient"
	"github.com/eduforge/eduforge-api/pkg/jwt"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/mailer"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/eduforge/eduforge-api/pkg/profiling"
	"github.com/eduforge/eduforge-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerPublicRoutes registers the demo booking routes used by the site
func registerPublicRoutes(
	router *gin.Engine,
	generalRateLimiter, bookingRateLimiter *middleware.RateLimiter,
	bookingHandler *handlers.BookingHandler,
	emailHandler *handlers.EmailHandler,
	healthHandler *handlers.HealthHandler,
	metricsHandler *handlers.MetricsHandler,
) {
	router.GET("/health", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	router.GET("/health/detailed", generalRateLimiter.Middleware(), healthHandler.DetailedHealth)

	api := router.Group("/api")
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))
	api.GET("/metrics/snapshot", generalRateLimiter.Middleware(), metricsHandler.Snapshot)
	api.GET("/metrics/stream", generalRateLimiter.Middleware(), metricsHandler.Stream)

	demo := api.Group("/demo")
	demo.POST("/create-booking", bookingRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), bookingHandler.CreateBooking)
	demo.GET("/available-slots", generalRateLimiter.Middleware(), bookingHandler.AvailableSlots)

	api.POST("/send-demo-email", bookingRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), emailHandler.SendDemoEmail)
}

// registerAdminRoutes registers the session-protected booking management routes
func registerAdminRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authRateLimiter *middleware.RateLimiter,
	adminAuthHandler *handlers.AdminAuthHandler,
	adminBookingsHandler *handlers.AdminBookingsHandler,
	tokenManager *jwt.TokenManager,
) {
	// Skip admin routes if JWT is not configured
	if tokenManager == nil {
		logger.Warn("Admin routes disabled: JWT_SECRET not configured")
		return
	}

	auth := router.Group("/api/v1/admin/auth")
	auth.POST("/login", authRateLimiter.Middleware(), adminAuthHandler.Login)
	auth.POST("/logout", adminAuthHandler.Logout)

	sessionMiddleware := middleware.AdminSessionMiddleware(tokenManager,
		cfg.AdminSession.CookieDomain, cfg.AdminSession.CookieSecure)
	auth.GET("/me", sessionMiddleware, adminAuthHandler.Me)

	admin := router.Group("/api/v1/admin")
	admin.Use(sessionMiddleware)
	admin.GET("/bookings", adminBookingsHandler.List)
	admin.GET("/bookings/:id", adminBookingsHandler.Get)
	admin.POST("/bookings/:id/status", adminBookingsHandler.UpdateStatus)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting EduForge API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (optional)
	if cfg.Profiling.Enabled {
		stopProfiler, profErr := profiling.InitProfiler(cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv)
		if profErr != nil {
			logger.Error("Failed to start profiler", zap.Error(profErr))
		} else {
			defer stopProfiler()
		}
	}

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	// HTTP client for triggers, webhooks and health probes
	httpClient := httpclient.NewStandardClient()

	// Monitoring collector: request samples, threshold alerts, health checks
	collector := monitoring.NewCollector(cfg.Alerting, httpClient)
	collector.RegisterCheck("database", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	collector.RegisterCheck("email", func(ctx context.Context) error {
		if !cfg.EmailEnabled() {
			return fmt.Errorf("smtp credentials not configured")
		}
		return nil
	})
	collector.RegisterCheck("calendar", func(ctx context.Context) error {
		if !cfg.CalendarEnabled() {
			return fmt.Errorf("google calendar credentials not configured")
		}
		return nil
	})
	collector.Start()
	defer collector.Stop()

	// Repository and slot cache
	bookingRepo := repository.NewBookingRepository(pool)
	slotsCache := cache.NewSlotsCache(bookingRepo.BookedSlots, cfg.Cache.SlotTTLSeconds)

	// Google Calendar client (optional)
	var calendarClient services.CalendarClient
	if cfg.CalendarEnabled() {
		gcal, calErr := calendar.NewClient(context.Background(),
			cfg.Calendar.CredentialsFile, cfg.Calendar.CalendarID)
		if calErr != nil {
			logger.Fatal("Failed to initialize Google Calendar client", zap.Error(calErr))
		}
		calendarClient = gcal
	} else {
		logger.Warn("Google Calendar integration disabled: bookings get fallback meet links")
	}

	// SMTP sender (optional)
	var emailSender mailer.Sender
	if cfg.EmailEnabled() {
		emailSender = mailer.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.User, cfg.Email.Password, cfg.Email.From)
	} else {
		logger.Warn("Email delivery disabled: EMAIL_USER/EMAIL_PASS not configured")
	}

	// Initialize services
	bookingService := services.NewBookingService(bookingRepo, calendarClient, slotsCache, cfg, httpClient)
	emailService := services.NewEmailService(emailSender, cfg)
	adminBookingsService := services.NewAdminBookingsService(bookingRepo, cfg, httpClient)

	// Admin sessions (optional)
	var tokenManager *jwt.TokenManager
	if cfg.AdminSession.JWTSecret != "" {
		tokenManager = jwt.NewTokenManager(cfg.AdminSession.JWTSecret,
			cfg.AdminSession.JWTIssuer, cfg.AdminSession.SessionTTLHours)
	}

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	emailHandler := handlers.NewEmailHandler(emailService)
	healthHandler := handlers.NewHealthHandler(collector, cfg.Observability.ServiceName)
	metricsHandler := handlers.NewMetricsHandler(collector)
	adminAuthHandler := handlers.NewAdminAuthHandler(tokenManager, cfg.AdminSession)
	adminBookingsHandler := handlers.NewAdminBookingsHandler(adminBookingsService)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(middleware.RecoveryMiddleware(cfg.IsProduction()))
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware(collector))
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for admin session cookies
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	bookingRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10 (prevent spam)
	authRateLimiter := middleware.NewRateLimiter(0.0334, 3)   // 10 req/5min, burst of 3 (login abuse prevention)

	registerPublicRoutes(router, generalRateLimiter, bookingRateLimiter,
		bookingHandler, emailHandler, healthHandler, metricsHandler)
	registerAdminRoutes(router, cfg, authRateLimiter, adminAuthHandler, adminBookingsHandler, tokenManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // SSE stream needs an unbounded write window
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
