package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

type Handler struct {
	client *upstream.Client
}

func NewHandler(client *upstream.Client) *Handler {
	return &Handler{client: client}
}

// CheckConnectionResponse reports whether the gateway can reach the
// upstream with its configured key. Always 200; the status field carries
// the verdict.
type CheckConnectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// CheckConnection probes the upstream resource listing to verify the API
// key and connectivity. It never fails the request itself.
func (h *Handler) CheckConnection(c *gin.Context) {
	if !h.client.HasAPIKey() {
		c.JSON(http.StatusOK, CheckConnectionResponse{
			Status:  "error",
			Message: "API key not configured",
		})
		return
	}

	if _, err := h.client.Get(c.Request.Context(), "/api/resources", nil); err != nil {
		c.JSON(http.StatusOK, CheckConnectionResponse{
			Status:  "error",
			Message: "Connection failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, CheckConnectionResponse{
		Status:  "success",
		Message: "Connection to Hourglass API successful",
		URL:     h.client.BaseURL() + "/api/resources",
	})
}
