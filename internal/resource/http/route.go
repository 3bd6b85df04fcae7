package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource proxy routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/resources")
	{
		group.GET("", h.List)    // List resources
		group.POST("", h.Create) // Create resource
	}
}
