package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	encargoapp "github.com/encargos/storefront/internal/application/encargo"
	"github.com/encargos/storefront/internal/infrastructure/auth"
	"github.com/encargos/storefront/internal/infrastructure/backend"
	"github.com/encargos/storefront/internal/infrastructure/billing"
	"github.com/encargos/storefront/internal/infrastructure/cache"
	"github.com/encargos/storefront/internal/infrastructure/config"
	"github.com/encargos/storefront/internal/infrastructure/logger"
	"github.com/encargos/storefront/internal/infrastructure/telemetry"
	"github.com/encargos/storefront/internal/interfaces/http/handler"
	"github.com/encargos/storefront/internal/interfaces/http/middleware"
	"github.com/encargos/storefront/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = telemetry.ServiceVersion

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	encargoMetrics, err := telemetry.NewEncargoMetrics(meterProvider.Meter("encargos"))
	if err != nil {
		log.Fatal("Failed to create encargo metrics", zap.Error(err))
	}

	// Outbound dependencies
	backendClient, err := backend.NewClient(backend.Config{
		BaseURL:         cfg.Backend.BaseURL,
		MaxResponseSize: cfg.Backend.MaxResponseSize,
	}, backend.WithLogger(log.Named("backend")))
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	cartStore, err := cache.NewCartStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}

	stripeAdapter, err := billing.NewStripeAdapter(&billing.StripeConfig{
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		IsTestMode:     !cfg.IsProduction(),
		Currency:       cfg.Stripe.Currency,
	}, log.Named("stripe"))
	if err != nil {
		log.Fatal("Failed to initialize Stripe", zap.Error(err))
	}

	sessionReader := auth.NewSessionReader(cfg.JWT)
	if !sessionReader.Verifies() {
		log.Warn("JWT secret not configured, session claims are read without signature verification")
	}

	// Application services
	captureService := encargoapp.NewCaptureService(backendClient, log)
	captureService.SetMetrics(encargoMetrics)

	quoteService := encargoapp.NewQuoteService(backendClient, log)
	quoteService.SetMetrics(encargoMetrics)

	checkoutService := encargoapp.NewCheckoutService(quoteService, backendClient, cartStore, stripeAdapter,
		encargoapp.CheckoutConfig{
			LoginURL:   cfg.Checkout.LoginURL,
			SuccessURL: cfg.Checkout.SuccessURL,
			CancelURL:  cfg.Checkout.CancelURL,
			CartTTL:    cfg.Checkout.CartTTL,
		}, log)
	checkoutService.SetMetrics(encargoMetrics)

	// HTTP handlers
	base := handler.NewBaseHandler(cfg.Checkout.LoginURL)
	handlers := router.Handlers{
		Encargo:  handler.NewEncargoHandler(base, captureService, quoteService),
		Checkout: handler.NewCheckoutHandler(base, checkoutService),
		Geo:      handler.NewGeoHandler(base),
		System:   handler.NewSystemHandler(version, healthChecks(cartStore)),
	}
	webhookHandler := handler.NewStripeWebhookHandler(base, stripeAdapter)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server span per request
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. Metrics - Request counters by route
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SecureWithConfig(middleware.SecurityConfig{
		HSTSEnabled: cfg.IsProduction(),
		HSTSMaxAge:  31536000,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(meterProvider))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", handlers.System.Health)

	// Stripe calls this directly; it carries no customer session
	engine.POST("/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	// Resolve and inspect fetch third-party pages, so they are rate limited per client
	var scrapeLimit gin.HandlerFunc
	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		scrapeLimit = middleware.RateLimit(rateLimiter)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.Session(sessionReader), middleware.SpanEnricher())
	for _, group := range router.StorefrontRoutes(handlers, scrapeLimit) {
		r.Register(group)
	}
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if closer, ok := cartStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing cart store", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthChecks pings the cart store when it supports it. The in-memory
// store always answers; Redis is pinged.
func healthChecks(store any) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{}
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		checks["cart_store"] = p.Ping
	}
	return checks
}
