package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers conflict detection and reporting routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/conflicts")
	group.Use(authMiddleware)
	{
		group.POST("/detect", h.Detect)
	}

	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.GET("", h.List)
		staff.PATCH("/:id", h.Moderate)
	}
}
