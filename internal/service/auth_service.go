package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trailplay/backend-go/internal/middleware"
)

const tokenTTL = 24 * time.Hour

// AuthService issues access tokens to clients that present the
// configured key. There is no user model; the renderer is the only
// client.
type AuthService struct {
	secret    []byte
	clientKey string
}

// NewAuthService creates a new auth service
func NewAuthService(secret, clientKey string) *AuthService {
	return &AuthService{
		secret:    []byte(secret),
		clientKey: clientKey,
	}
}

// IssueToken exchanges a valid client key for a signed bearer token
func (s *AuthService) IssueToken(clientKey string) (string, error) {
	if clientKey == "" || clientKey != s.clientKey {
		return "", fmt.Errorf("invalid client key")
	}

	claims := middleware.Claims{
		ClientID: "renderer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
