package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/user"
)

// RequireStaff gates routes that operate hotels: room status transitions,
// conflict moderation, manual sweeps. Must run after the auth middleware.
func RequireStaff(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		if !u.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}

		c.Next()
	}
}
