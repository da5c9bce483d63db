package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/tgo/tubechat/internal/config"
	"github.com/tgo/tubechat/internal/database"
	"github.com/tgo/tubechat/internal/handler"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Setup router
	r, err := handler.SetupRouter(cfg, db)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	// Start server
	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Tubechat service starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
