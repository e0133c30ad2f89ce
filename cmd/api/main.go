package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"carprice/adapters/postgres"
	"carprice/api"
	"carprice/app"
	"carprice/internal/artifacts"
	"carprice/internal/config"
	"carprice/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	store := artifacts.NewFileStore(cfg.Paths.ModelPath, cfg.Paths.MetaPath)
	svc := app.NewPredictionService(store)

	// Warm the artifact cache; a missing model is not fatal, the service
	// just reports a degraded health status until one is trained.
	if err := svc.Reload(); err != nil {
		log.Printf("⚠️  Model artifacts not loaded yet: %v", err)
	} else {
		log.Println("✅ Model artifacts loaded")
	}

	var predLog api.PredictionLogger
	if cfg.Database.URL != "" {
		repo, err := postgres.NewPredictionLogRepository(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect prediction audit log: %v", err)
		}
		defer repo.Close()
		predLog = repo
		log.Println("✅ Prediction audit log enabled")
	}

	server := api.NewServer(svc, predLog)
	log.Printf("Starting CarPrice API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(server.Start(":" + cfg.Server.Port))
}
