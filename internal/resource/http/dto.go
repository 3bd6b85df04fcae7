package http

import (
	"strings"

	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
)

// ListResourcesRequest defines query parameters for listing resources.
// ActiveOnly defaults to true when absent.
type ListResourcesRequest struct {
	ActiveOnly      *bool  `form:"activeOnly"`
	ResourceType    string `form:"resourceType"`
	ServiceOffering string `form:"serviceOffering"`
}

// CreateResourceRequest defines the body for creating a resource.
// externalId is optional and defaults upstream-side of the gateway.
type CreateResourceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ExternalID  string `json:"externalId"`
}

// Validate performs custom validation for CreateResourceRequest.
func (r *CreateResourceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.Validation("name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperror.Validation("description is required")
	}
	return nil
}
