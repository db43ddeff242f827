package main

import (
	"log"

	"adazone/internal/api"
	"adazone/internal/config"
	"adazone/internal/postgres"
	"adazone/internal/redis"
	"adazone/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database and cache
	initializeDatabaseAndCache(cfg)

	// Start background workers
	worker.StartAllWorkers()

	// Setup and run API server
	runAPIServer(cfg)
}

func initializeDatabaseAndCache(cfg config.Config) {
	// Initialize PostgreSQL
	if cfg.DBUrl != "" {
		postgres.Init(cfg.DBUrl)
	} else {
		log.Println("DB_URL not set, running without persistence")
	}

	// Initialize Redis
	if cfg.RedisUrl != "" {
		redis.Init(cfg.RedisUrl)
	} else {
		log.Println("REDIS_URL not set, running without route distance cache")
	}
}

func runAPIServer(cfg config.Config) {
	// Initialize Gin router
	r := gin.Default()

	// Configure API routes
	routerConfig := map[string]string{
		"port":        cfg.Port,
		"ors_api_key": cfg.OpenRouteAPIKey,
	}
	api.SetupRouter(r, routerConfig)

	// Start the server
	if err := r.Run(cfg.Port); err != nil {
		log.Fatalf("API server stopped: %v", err)
	}
}
