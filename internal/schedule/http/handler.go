package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/response"
	"github.com/nekogravitycat/hourglass-gateway/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	pageStr := c.DefaultQuery("page", strconv.Itoa(schedule.DefaultPage))
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		response.Error(c, apperror.Validation("page must be an integer, got %q", pageStr))
		return
	}
	sort := c.DefaultQuery("sort", schedule.DefaultSort)

	res, err := h.service.List(c.Request.Context(), page, sort)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Forward(c, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	resourceID, err := req.ResourceID()
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), schedule.CreateRequest{
		ResourceID: resourceID,
		Start:      req.Timeslot.Start,
		End:        req.Timeslot.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Forward(c, res)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	id, err := ParseScheduleID(c.Param("scheduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Forward(c, res)
}

// Preflight answers the browser's OPTIONS probe explicitly, on top of the
// CORS middleware handling for requests that carry CORS headers.
func (h *Handler) Preflight(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}
