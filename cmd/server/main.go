package main

import (
	"log"

	"github.com/trailplay/backend-go/internal/api"
	"github.com/trailplay/backend-go/internal/config"
	"github.com/trailplay/backend-go/internal/database"
	"github.com/trailplay/backend-go/internal/repository"
	"github.com/trailplay/backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	trackRepo := repository.NewTrackRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)

	trackService := service.NewTrackService(trackRepo, journeyRepo)
	journeyService := service.NewJourneyService(trackRepo, journeyRepo, cfg.BearingSmoothing)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.ClientKey)

	router := api.SetupRouter(cfg, trackService, journeyService, authService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
