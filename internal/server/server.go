// Package server contains the HTTP handlers for the meme, admin and leaderboard API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "spincat/docs" // swagger docs
	"spincat/internal/config"
	"spincat/internal/featureflags"
	"spincat/internal/middleware"
	"spincat/internal/models"
	"spincat/internal/repository"
	"spincat/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config             *config.Config
	db                 *gorm.DB
	redis              *redis.Client
	app                *fiber.App
	promMiddleware     *fiberprometheus.FiberPrometheus
	featureFlags       *featureflags.Manager
	rateLimiter        *middleware.RateLimiter
	memeService        *service.MemeService
	authService        *service.AuthService
	leaderboardService *service.LeaderboardService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil: rate limits are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires a config and a database")
	}

	memeRepo := repository.NewMemeRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("spincat-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled),
	}

	server.memeService = service.NewMemeService(memeRepo, adminRepo)
	server.authService = service.NewAuthService(adminRepo, sessionRepo, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		SessionTTL: cfg.SessionTTL(),
	})
	server.leaderboardService = service.NewLeaderboardService(scoreRepo)

	return server, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "spincat API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler in the standard error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span; runs before ContextMiddleware so the trace id reaches the context
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still carry CORS headers.
	origins := strings.TrimSpace(s.config.AllowedOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
		MaxAge:       86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	cfg := s.config
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if s.featureFlags.On(featureflags.MetricsDashboard) {
		api.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "spincat API Metrics Dashboard",
		}))
	}
	if s.featureFlags.On(featureflags.Swagger) {
		api.Get("/swagger/*", swagger.HandlerDefault)
	}

	submitLimit := s.rateLimiter.Limit("submit_meme", cfg.SubmitRateLimit, minutes(cfg.SubmitRateWindowMinutes))
	voteLimit := s.rateLimiter.Limit("vote", cfg.VoteRateLimit, minutes(cfg.VoteRateWindowMinutes))
	// Brute-force guard: an unreachable Redis blocks logins instead of lifting the cap.
	loginLimit := s.rateLimiter.LimitWithPolicy("admin_login", cfg.LoginRateLimit,
		minutes(cfg.LoginRateWindowMinutes), middleware.FailClosed)

	// Public meme routes. Static paths come before /:id.
	memes := api.Group("/memes")
	memes.Post("/", submitLimit, s.SubmitMeme)
	memes.Get("/discover", s.DiscoverMemes)
	memes.Get("/trending-tags", s.GetTrendingTags)
	memes.Post("/:id/vote", voteLimit, s.VoteMeme)

	// Leaderboard
	scores := api.Group("/scores")
	scores.Post("/", s.SubmitScore)
	scores.Get("/leaderboard", s.GetLeaderboard)
	scores.Get("/players/:name", s.GetPlayerScores)

	// Admin login is public; everything else under /admin needs a session.
	api.Post("/admin/login", loginLimit, s.AdminLogin)

	admin := api.Group("/admin", s.AdminRequired())
	admin.Get("/me", s.GetAdminMe)
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/memes/pending", s.GetPendingMemes)
	admin.Get("/memes", s.GetMemesByStatus)
	admin.Post("/memes", s.AdminSubmitMeme)
	admin.Post("/memes/:id/review", s.ReviewMeme)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs rate limiting and caching, so its absence degrades but does not fail readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// AdminRequired returns middleware that only lets requests with a live admin
// session through.
func (s *Server) AdminRequired() fiber.Handler {
	return middleware.AdminAuth(s.authService)
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
