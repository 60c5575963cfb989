package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trailplay/backend-go/internal/service"
	"github.com/trailplay/backend-go/pkg/response"
)

// AuthHandler handles HTTP requests for token issuance
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type tokenRequest struct {
	ClientKey string `json:"clientKey" binding:"required"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid token request")
		return
	}

	token, err := h.authService.IssueToken(req.ClientKey)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token":     token,
		"tokenType": "Bearer",
	})
}
