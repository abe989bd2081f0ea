package middlewares

import (
	"net/http"
	"points-wallet/internal/lib/jwt"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtGen *jwt.Generator
}

func NewAuthMiddleware(jwtGen *jwt.Generator) *AuthMiddleware {
	return &AuthMiddleware{jwtGen: jwtGen}
}

// Handle extracts the Bearer token and puts the verified user id into the
// request context under "user_id". The services downstream trust this value
// and never re-derive it.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		userID, err := m.jwtGen.ParseUserID(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
