// Command main is the entry point for the Itsour blog backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itsour/internal/config"
	"itsour/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; env vars and defaults take over.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	srv.EnsureSearchIndex(context.Background())

	app := fiber.New(fiber.Config{
		AppName:   "Itsour Blog API",
		BodyLimit: 10 * 1024 * 1024, // uploads are capped at 10MB
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Serve uploaded image variants directly.
	app.Static("/uploads", cfg.UploadDir)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
