package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers waitlist routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/waitlist")
	group.Use(authMiddleware)
	{
		group.POST("", h.Join)
		group.GET("/:id/position", h.Position)
		group.POST("/:id/confirm", h.Confirm)
		group.DELETE("/:id", h.Leave)
	}

	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.POST("/sweep", h.Sweep)
	}
}
