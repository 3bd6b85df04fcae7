package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/response"
	"github.com/nekogravitycat/hourglass-gateway/internal/resource"
)

type Handler struct {
	service resource.Service
}

func NewHandler(service resource.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListResourcesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: %v", err))
		return
	}

	filter := resource.ListFilter{
		ActiveOnly:      true,
		ResourceType:    req.ResourceType,
		ServiceOffering: req.ServiceOffering,
	}
	if req.ActiveOnly != nil {
		filter.ActiveOnly = *req.ActiveOnly
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Forward(c, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		ExternalID:  req.ExternalID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Forward(c, res)
}
