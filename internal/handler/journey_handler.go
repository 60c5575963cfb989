package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trailplay/backend-go/internal/models"
	"github.com/trailplay/backend-go/internal/service"
	"github.com/trailplay/backend-go/pkg/response"
)

// JourneyHandler handles HTTP requests for the journey timeline and the
// per-frame playback queries
type JourneyHandler struct {
	journeyService *service.JourneyService
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(journeyService *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{
		journeyService: journeyService,
	}
}

// Duration is a pointer so an explicit zero survives binding.
type durationRequest struct {
	Duration *int64 `json:"duration" binding:"required"`
}

type orderRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// GetJourney handles GET /api/v1/journey
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	journey, err := h.journeyService.Journey()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if journey == nil {
		response.Success(c, gin.H{"empty": true})
		return
	}

	// The full point list is large; the summary endpoint returns the
	// shape the timeline UI needs.
	response.Success(c, gin.H{
		"totalDuration":     journey.TotalDuration,
		"totalDistance":     journey.TotalDistance,
		"trackDuration":     journey.TrackDuration,
		"transportDuration": journey.TransportDuration,
		"pointCount":        len(journey.Points),
		"timings":           journey.Timings,
	})
}

// ListSegments handles GET /api/v1/journey/segments
func (h *JourneyHandler) ListSegments(c *gin.Context) {
	segments, err := h.journeyService.Segments()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	wrapped := make([]models.SegmentEnvelope, len(segments))
	for i, seg := range segments {
		wrapped[i] = models.WrapSegment(seg)
	}
	response.Success(c, gin.H{
		"segments": wrapped,
		"count":    len(wrapped),
	})
}

// AddSegment handles POST /api/v1/journey/segments. The body is the
// kind-tagged segment envelope.
func (h *JourneyHandler) AddSegment(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	parsed, err := models.UnmarshalSegment(body)
	if err != nil {
		response.BadRequest(c, "Invalid segment payload: "+err.Error())
		return
	}

	var seg models.JourneySegment
	switch req := parsed.(type) {
	case models.TrackSegment:
		seg, err = h.journeyService.AddTrackSegment(req.TrackID, req.Duration)
	case models.TransportSegment:
		seg, err = h.journeyService.AddTransportSegment(req.Mode, req.From, req.To, req.Duration)
	}
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, models.WrapSegment(seg))
}

// UpdateSegment handles PATCH /api/v1/journey/segments/:id
func (h *JourneyHandler) UpdateSegment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid duration payload")
		return
	}

	if err := h.journeyService.UpdateSegmentDuration(id, *req.Duration); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			response.NotFound(c, "Segment not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// DeleteSegment handles DELETE /api/v1/journey/segments/:id
func (h *JourneyHandler) DeleteSegment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	if err := h.journeyService.DeleteSegment(id); err != nil {
		if strings.Contains(err.Error(), "no rows") {
			response.NotFound(c, "Segment not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// ReorderSegments handles PUT /api/v1/journey/segments/order
func (h *JourneyHandler) ReorderSegments(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid order payload")
		return
	}

	if err := h.journeyService.Reorder(req.IDs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// GetState handles GET /api/v1/journey/state?progress=
func (h *JourneyHandler) GetState(c *gin.Context) {
	progress, ok := parseProgress(c)
	if !ok {
		return
	}

	state, err := h.journeyService.State(progress)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, state)
}

// GetCompleted handles GET /api/v1/journey/completed?progress=
func (h *JourneyHandler) GetCompleted(c *gin.Context) {
	progress, ok := parseProgress(c)
	if !ok {
		return
	}

	coords, err := h.journeyService.Completed(progress)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"coordinates": coords,
		"count":       len(coords),
	})
}

// GetElevation handles GET /api/v1/journey/elevation
func (h *JourneyHandler) GetElevation(c *gin.Context) {
	profile, err := h.journeyService.Elevation()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, profile)
}

// parseProgress reads the progress query parameter. Out-of-range values
// are accepted and clamped downstream; non-numeric values are rejected.
func parseProgress(c *gin.Context) (float64, bool) {
	raw := c.DefaultQuery("progress", "0")
	progress, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.BadRequest(c, "Invalid progress parameter")
		return 0, false
	}
	return progress, true
}
