package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room status routes. These share the /rooms prefix
// with the room admin module; gin merges the groups.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")
	group.Use(authMiddleware)
	{
		group.GET("/:id/status", h.Get)
		group.POST("/availability", h.CheckAvailability)
	}

	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.PUT("/:id/status", h.Transition)
		staff.GET("/:id/status/history", h.History)
	}
}
