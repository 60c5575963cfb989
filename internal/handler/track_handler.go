package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/service"
	"github.com/trailplay/backend-go/pkg/response"
)

// TrackHandler handles HTTP requests for loaded tracks
type TrackHandler struct {
	trackService   *service.TrackService
	journeyService *service.JourneyService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(trackService *service.TrackService, journeyService *service.JourneyService) *TrackHandler {
	return &TrackHandler{
		trackService:   trackService,
		journeyService: journeyService,
	}
}

// CreateTrack handles POST /api/v1/tracks
func (h *TrackHandler) CreateTrack(c *gin.Context) {
	var upload models.TrackUpload
	if err := c.ShouldBindJSON(&upload); err != nil {
		response.BadRequest(c, "Invalid track payload: "+err.Error())
		return
	}

	track, err := h.trackService.Ingest(upload)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, track)
}

// ListTracks handles GET /api/v1/tracks
func (h *TrackHandler) ListTracks(c *gin.Context) {
	summaries, err := h.trackService.ListTracks()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"tracks": summaries,
		"count":  len(summaries),
	})
}

// GetTrack handles GET /api/v1/tracks/:id
func (h *TrackHandler) GetTrack(c *gin.Context) {
	track, err := h.trackService.GetTrack(c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Track not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, track)
}

// UpdateTrack handles PATCH /api/v1/tracks/:id
func (h *TrackHandler) UpdateTrack(c *gin.Context) {
	var update models.TrackUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, "Invalid update payload")
		return
	}

	if err := h.trackService.UpdateTrack(c.Param("id"), update); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			response.NotFound(c, "Track not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	// Display changes do not alter the timeline, but a deleted or
	// recolored track does show up in segment timings.
	h.journeyService.Invalidate()
	response.Success(c, nil)
}

// DeleteTrack handles DELETE /api/v1/tracks/:id
func (h *TrackHandler) DeleteTrack(c *gin.Context) {
	if err := h.trackService.DeleteTrack(c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			response.NotFound(c, "Track not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	h.journeyService.Invalidate()
	response.Success(c, nil)
}
