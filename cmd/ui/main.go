package main

import (
	"log"

	"github.com/joho/godotenv"

	"carprice/internal/config"
	"carprice/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := ui.NewApp(ui.Config{
		Port:      cfg.UI.Port,
		APIURL:    cfg.UI.APIURL,
		ModelPath: cfg.Paths.ModelPath,
		MetaPath:  cfg.Paths.MetaPath,
	})
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting CarPrice UI on http://localhost:%s (API at %s)", cfg.UI.Port, cfg.UI.APIURL)
	log.Fatal(app.Start())
}
