package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trailplay/backend-go/internal/config"
	"github.com/trailplay/backend-go/internal/handler"
	"github.com/trailplay/backend-go/internal/middleware"
	"github.com/trailplay/backend-go/internal/service"
)

// SetupRouter wires handlers, middleware, and routes. Mutating routes
// sit behind bearer auth and the rate limiter; the per-frame playback
// reads stay open and unthrottled.
func SetupRouter(cfg *config.Config, trackService *service.TrackService, journeyService *service.JourneyService, authService *service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trailplay API is running",
		})
	})

	trackHandler := handler.NewTrackHandler(trackService, journeyService)
	journeyHandler := handler.NewJourneyHandler(journeyService)
	authHandler := handler.NewAuthHandler(authService)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/token", authHandler.IssueToken)

		// Open read path: track listings and the playback queries.
		api.GET("/tracks", trackHandler.ListTracks)
		api.GET("/tracks/:id", trackHandler.GetTrack)

		journey := api.Group("/journey")
		{
			journey.GET("", journeyHandler.GetJourney)
			journey.GET("/segments", journeyHandler.ListSegments)
			journey.GET("/state", journeyHandler.GetState)
			journey.GET("/completed", journeyHandler.GetCompleted)
			journey.GET("/elevation", journeyHandler.GetElevation)
		}

		// Mutations require a token and are rate limited per IP.
		mutate := api.Group("")
		mutate.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
		mutate.Use(middleware.Auth(cfg.JWTSecret))
		{
			mutate.POST("/tracks", trackHandler.CreateTrack)
			mutate.PATCH("/tracks/:id", trackHandler.UpdateTrack)
			mutate.DELETE("/tracks/:id", trackHandler.DeleteTrack)

			mutate.POST("/journey/segments", journeyHandler.AddSegment)
			mutate.PATCH("/journey/segments/:id", journeyHandler.UpdateSegment)
			mutate.DELETE("/journey/segments/:id", journeyHandler.DeleteSegment)
			mutate.PUT("/journey/segments/order", journeyHandler.ReorderSegments)
		}
	}

	return r
}
