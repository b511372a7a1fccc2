package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facturel/facturel-backend/internal/config"
	"github.com/facturel/facturel-backend/internal/handler"
	"github.com/facturel/facturel-backend/internal/middleware"
	"github.com/facturel/facturel-backend/internal/repository/postgres"
	"github.com/facturel/facturel-backend/internal/repository/storage"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Apply schema migrations
	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize repositories
	billRepo := postgres.NewBillRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)

	// Logo storage is optional; the logo endpoints return 503 when unset
	var logoRepo storage.LogoRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3LogoRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize logo storage")
		}
		logoRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Logo storage enabled")
	} else {
		log.Info().Msg("Logo storage not configured; logo endpoints disabled")
	}

	// Initialize services
	billService := service.NewBillService(billRepo, tagRepo)
	paymentService := service.NewPaymentService(paymentRepo, billRepo)
	tagService := service.NewTagService(tagRepo)
	statsService := service.NewStatisticsService(billRepo, paymentRepo)
	exportService := service.NewExportService(billRepo, paymentRepo)
	logoService := service.NewLogoService(logoRepo)

	// WebSocket hub for live updates
	hub := websocket.NewHub()

	// Initialize handlers
	handlers := handler.Handlers{
		Bill:       handler.NewBillHandler(billService, statsService, hub),
		Payment:    handler.NewPaymentHandler(paymentService, statsService, hub),
		Tag:        handler.NewTagHandler(tagService, hub),
		Statistics: handler.NewStatisticsHandler(statsService),
		Export:     handler.NewExportHandler(exportService),
		Logo:       handler.NewLogoHandler(billService, logoService, hub),
		WebSocket:  handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Rate limiting
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
