package resource

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

// The gateway serves a single hardcoded category: every created resource
// is filed under these upstream identifiers.
const (
	ResourceTypeID    = 25
	ServiceOfferingID = 8
)

// DefaultExternalID is applied when the client does not supply one.
const DefaultExternalID = "9"

// ListFilter carries the query parameters forwarded to the upstream
// resource listing. Empty strings are omitted from the outbound query.
type ListFilter struct {
	ActiveOnly      bool
	ResourceType    string
	ServiceOffering string
}

// CreateRequest carries the client-supplied fields of a new resource.
type CreateRequest struct {
	Name        string
	Description string
	ExternalID  string
}

type Service interface {
	List(ctx context.Context, filter ListFilter) (*upstream.Result, error)
	Create(ctx context.Context, req CreateRequest) (*upstream.Result, error)
}

type service struct {
	client *upstream.Client
}

func NewService(client *upstream.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context, filter ListFilter) (*upstream.Result, error) {
	q := url.Values{}
	// activeOnly is always forwarded, lowercased
	q.Set("activeOnly", strconv.FormatBool(filter.ActiveOnly))
	if filter.ResourceType != "" {
		q.Set("resourceType", filter.ResourceType)
	}
	if filter.ServiceOffering != "" {
		q.Set("serviceOffering", filter.ServiceOffering)
	}

	return s.client.Get(ctx, "/api/resources", q)
}

// idRef is the upstream's {"id": n} reference shape.
type idRef struct {
	ID int `json:"id"`
}

type createPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ExternalID      string `json:"externalId"`
	ResourceType    idRef  `json:"resourceType"`
	ServiceOffering idRef  `json:"serviceOffering"`
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*upstream.Result, error) {
	externalID := req.ExternalID
	if externalID == "" {
		externalID = DefaultExternalID
	}

	payload := createPayload{
		Name:            req.Name,
		Description:     req.Description,
		ExternalID:      externalID,
		ResourceType:    idRef{ID: ResourceTypeID},
		ServiceOffering: idRef{ID: ServiceOfferingID},
	}

	return s.client.Post(ctx, "/api/resources", payload)
}
