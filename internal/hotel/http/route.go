package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers hotel administration routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/hotels")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	staff := group.Group("")
	staff.Use(staffMiddleware)
	{
		staff.POST("", h.Create)
		staff.PATCH("/:id", h.Update)
		staff.DELETE("/:id", h.Delete)
	}
}
