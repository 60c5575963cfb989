package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/trailplay/backend-go/pkg/response"
)

// Claims is the JWT payload carried by client tokens.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens on mutating routes and stores the client
// id in the context. Read and playback routes stay open.
func Auth(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)
	return func(c *gin.Context) {
		token := bearerFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			response.Unauthorized(c, "token invalid or expired")
			c.Abort()
			return
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}

		c.Set("client_id", claims.ClientID)
		c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
