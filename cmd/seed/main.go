// Command seed fills the database with demo articles and categories.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"itsour/internal/config"
	"itsour/internal/database"
	"itsour/internal/repository"
	"itsour/internal/search"
	"itsour/internal/seed"
	"itsour/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	articleCount := flag.Int("articles", 25, "number of articles to create")
	categoryCount := flag.Int("categories", 4, "number of categories to create")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	indexer, err := search.NewClient(cfg.ElasticsearchURL, time.Duration(cfg.SearchTimeoutSec)*time.Second)
	if err != nil {
		log.Fatalf("Search client setup failed: %v", err)
	}
	ctx := context.Background()
	indexer.EnsureIndex(ctx)

	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	imageRepo := repository.NewImageRepository(db)
	images := service.NewImageService(imageRepo, articleRepo, cfg.UploadDir)
	articles := service.NewArticleService(articleRepo, tagRepo, indexer, images, cfg.DefaultAuthor)
	categories := service.NewCategoryService(categoryRepo)

	opts := seed.Options{Articles: *articleCount, Categories: *categoryCount}
	if err := seed.Run(ctx, articles, categories, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d categories and %d articles", opts.Categories, opts.Articles)
}
