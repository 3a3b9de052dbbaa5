package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey    = "userID"
	ctxUserEmailKey = "userEmail"
)

// AuthRequired rejects requests without a valid Bearer token and stores the
// caller's identity in the request context for downstream handlers.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be a Bearer token",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserEmailKey, claims.Email)

		c.Next()
	}
}
