// Package server contains the HTTP handlers for the Agora API.
package server

import (
	"context"
	"errors"
	"time"

	_ "agora/docs" // swagger docs
	"agora/internal/config"
	"agora/internal/featureflags"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/repository"
	"agora/internal/service"

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
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	startedAt      time.Time
	tokens         *middleware.TokenManager
	notifier       *notifications.Notifier
	featureFlags   *featureflags.Manager
	images         *service.ImageService

	authService     *service.AuthService
	userService     *service.UserService
	categoryService *service.CategoryService
	ideaService     *service.IdeaService
	voteService     *service.VoteService
	commentService  *service.CommentService
	searchService   *service.SearchService
	statsService    *service.StatsService
}

// NewServer creates a Server using already-initialized dependencies. A nil
// Redis client disables the token blacklist, rate limits and events; the
// API keeps serving from the database.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	var notifier *notifications.Notifier
	if redisClient != nil {
		notifier = notifications.NewNotifier(redisClient)
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)
	tokens := middleware.NewTokenManager(cfg)
	images := service.NewImageService(cfg)
	mailer := notifications.LogMailer{
		Logger:       middleware.Logger,
		RevealTokens: !cfg.IsProduction(),
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("agora-api"),
		startedAt:      time.Now(),
		tokens:         tokens,
		notifier:       notifier,
		featureFlags:   flags,
		images:         images,

		authService:     service.NewAuthService(userRepo, tokens, redisClient, mailer, cfg.PasswordResetTTL),
		userService:     service.NewUserService(userRepo, images),
		categoryService: service.NewCategoryService(categoryRepo),
		ideaService:     service.NewIdeaService(ideaRepo, categoryRepo, images, flags, notifier),
		voteService:     service.NewVoteService(voteRepo, ideaRepo, notifier),
		commentService:  service.NewCommentService(commentRepo, ideaRepo, notifier),
		searchService:   service.NewSearchService(ideaRepo, userRepo, commentRepo, categoryRepo),
		statsService:    service.NewStatsService(statsRepo, ideaRepo, userRepo),
	}
}

// App builds the fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	bodyLimit := s.config.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}
	app := fiber.New(fiber.Config{
		AppName:      "Agora API",
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler is the last resort for errors no handler turned into a
// response: fiber routing errors keep their status, anything else is a 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusMethodNotAllowed:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded images and the static client are loaded cross-origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000,http://localhost:3000,http://127.0.0.1:8000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static("/uploads", s.images.UploadDir(), fiber.Static{MaxAge: 3600})
	if s.config.StaticDir != "" {
		app.Static("/app", s.config.StaticDir, fiber.Static{Index: "index.html"})
	}

	api := app.Group("/api")
	api.Get("/health", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Agora API Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, 15*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)
	auth.Post("/forgot-password", middleware.RateLimit(s.redis, 3, 15*time.Minute, "forgot_password"), s.ForgotPassword)
	auth.Post("/reset-password", middleware.RateLimit(s.redis, 5, 15*time.Minute, "reset_password"), s.ResetPassword)

	users := api.Group("/users")
	users.Get("/", s.AuthRequired(), s.AdminRequired(), s.ListUsers)
	users.Get("/me", s.AuthRequired(), s.GetMe)
	// Specific /:id/:resource routes before the generic /:id route.
	users.Get("/:id/ideas", s.OptionalAuth(), s.ListUserIdeas)
	users.Post("/:id/avatar", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Hour, "avatar"), s.UploadAvatar)
	users.Get("/:id", s.AuthRequired(), s.GetUser)
	users.Put("/:id", s.AuthRequired(), s.UpdateUser)
	users.Delete("/:id", s.AuthRequired(), s.DeleteUser)

	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateCategory)
	categories.Put("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteCategory)

	ideas := api.Group("/ideas")
	ideas.Get("/", s.OptionalAuth(), s.ListIdeas)
	ideas.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Hour, "create_idea"), s.CreateIdea)
	ideas.Get("/:idea_id/comments", s.OptionalAuth(), s.ListComments)
	ideas.Post("/:idea_id/comments", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	ideas.Post("/:id/vote", s.AuthRequired(), middleware.RateLimit(s.redis, 60, time.Minute, "vote"), s.Vote)
	ideas.Get("/:id", s.OptionalAuth(), s.GetIdea)
	ideas.Put("/:id", s.AuthRequired(), s.UpdateIdea)
	ideas.Delete("/:id", s.AuthRequired(), s.DeleteIdea)

	comments := api.Group("/comments", s.AuthRequired())
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	api.Get("/search", s.OptionalAuth(), middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.Search)

	stats := api.Group("/stats")
	stats.Get("/", s.AuthRequired(), s.AdminRequired(), s.GetStats)
	stats.Get("/ideas/:id", s.OptionalAuth(), s.GetIdeaStats)
	stats.Get("/users/:id", s.OptionalAuth(), s.GetUserStats)

	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)

	app.Use(func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusNotFound, &models.AppError{
			Code:    models.CodeNotFound,
			Message: "Route not found",
		})
	})
}

// HealthCheck handles GET /api/health
// @Summary API health
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string,uptime=number}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Seconds(),
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
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

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start listens on the configured port until Shutdown.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
