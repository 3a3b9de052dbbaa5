package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers room administration routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/rooms")
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
