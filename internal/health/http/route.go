package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the upstream connectivity probe.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/check-connection", h.CheckConnection)
}
