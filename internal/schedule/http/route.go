package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers schedule proxy routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/schedules")
	{
		group.GET("", h.List)                            // List schedules
		group.POST("", h.Create)                         // Create schedule
		group.PUT("/:scheduleId/status", h.UpdateStatus) // Cancel schedule
		group.OPTIONS("", h.Preflight)                   // Explicit preflight
	}
}
