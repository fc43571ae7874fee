// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"itsour/internal/config"
	"itsour/internal/database"
	"itsour/internal/middleware"
	"itsour/internal/repository"
	"itsour/internal/search"
	"itsour/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config    *config.Config
	db        *gorm.DB
	adminHash []byte
	indexer   search.Indexer

	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	imageRepo    repository.ImageRepository
	settingRepo  repository.SettingRepository

	articleService  *service.ArticleService
	categoryService *service.CategoryService
	imageService    *service.ImageService
	settingsService *service.SettingsService
	aiService       *service.AIService
}

// NewServer connects the database and the search engine and wires all
// dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	// Connect also runs migrations.
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	indexer, err := search.NewClient(cfg.ElasticsearchURL, time.Duration(cfg.SearchTimeoutSec)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("search client setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, indexer), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the database and
// the search engine.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, indexer search.Indexer) *Server {
	middleware.InitMiddleware(cfg)

	// The hash is computed once at startup like any other derived config.
	adminHash, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)

	server := &Server{
		config:       cfg,
		db:           db,
		adminHash:    adminHash,
		indexer:      indexer,
		articleRepo:  repository.NewArticleRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		imageRepo:    repository.NewImageRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
	}
	server.imageService = service.NewImageService(server.imageRepo, server.articleRepo, cfg.UploadDir)
	server.articleService = service.NewArticleService(server.articleRepo, server.tagRepo, indexer, server.imageService, cfg.DefaultAuthor)
	server.categoryService = service.NewCategoryService(server.categoryRepo)
	server.settingsService = service.NewSettingsService(server.settingRepo)
	server.aiService = service.NewAIService(server.settingsService)

	return server
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and username
	app.Use(middleware.ContextMiddleware())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.Login)
	auth.Post("/logout", s.Logout)

	// Public article routes. Specific paths must come before the generic
	// /:id routes.
	articles := api.Group("/articles")
	articles.Get("/", s.ListArticles)
	articles.Get("/search/query", s.SearchArticles)
	articles.Get("/by-slug/:slug", s.GetArticleBySlug)
	articles.Get("/stats/dashboard", s.GetStats)
	articles.Get("/tags/all", s.GetAllTags)
	articles.Get("/categories/all", s.ListCategories)
	articles.Get("/:id/related", s.GetRelatedArticles)
	articles.Get("/:id/images", s.GetArticleImages)
	articles.Get("/:id", s.GetArticle)

	// Admin article routes
	articles.Post("/", middleware.AuthRequired, s.CreateArticle)
	articles.Post("/management/reindex", middleware.AuthRequired, s.ReindexArticles)
	articles.Post("/:id/images", middleware.AuthRequired, s.UploadArticleImage)
	articles.Put("/:id", middleware.AuthRequired, s.UpdateArticle)
	articles.Delete("/:id", middleware.AuthRequired, s.DeleteArticle)

	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Post("/", middleware.AuthRequired, s.CreateCategory)
	categories.Put("/:id", middleware.AuthRequired, s.UpdateCategory)
	categories.Delete("/:id", middleware.AuthRequired, s.DeleteCategory)

	images := api.Group("/images", middleware.AuthRequired)
	images.Get("/", s.GetImageLibrary)
	images.Post("/", s.UploadImage)
	images.Delete("/:id", s.DeleteImage)

	settings := api.Group("/settings", middleware.AuthRequired)
	settings.Get("/", s.GetSettings)
	settings.Put("/", s.UpdateSettings)

	ai := api.Group("/ai", middleware.AuthRequired)
	ai.Post("/generate-summary", s.GenerateSummary)
}

// EnsureSearchIndex creates the search index if the engine is reachable.
// Like every index operation this is best-effort; startup proceeds either
// way.
func (s *Server) EnsureSearchIndex(ctx context.Context) {
	s.indexer.EnsureIndex(ctx)
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
