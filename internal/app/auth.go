package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mentormatch-service/internal/config"
)

const (
	ctxPartyID = "party_id"
	ctxRole    = "role"
)

// AuthMiddleware accepts either a signed JWT (with party id and role
// claims) or one of the configured static tokens.
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	staticTokens := strings.Split(strings.TrimSpace(cfg.StaticTokens), ",")
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		// JWT path
		if jwtSecret != "" {
			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenMalformed
				}
				return []byte(jwtSecret), nil
			}, jwt.WithLeeway(5*time.Second))
			if err == nil {
				if sub, ok := claims["sub"].(string); ok {
					c.Set(ctxPartyID, sub)
				}
				if role, ok := claims["role"].(string); ok {
					c.Set(ctxRole, role)
				}
				c.Next()
				return
			}
		}

		// static tokens
		for _, t := range staticTokens {
			if t = strings.TrimSpace(t); t != "" && tokenStr == t {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}
