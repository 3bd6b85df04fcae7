package schedule

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

// StatusCancelled is the only status transition the gateway accepts.
const StatusCancelled = "CANCELLED"

// Listing defaults applied when the client omits the parameters.
const (
	DefaultPage = 1
	DefaultSort = "id,asc"
)

// CreateRequest carries the fields forwarded for a new schedule.
// Only the first resource id and the timeslot bounds survive translation;
// any other client-supplied fields are dropped.
type CreateRequest struct {
	ResourceID int
	Start      string
	End        string
}

type Service interface {
	List(ctx context.Context, page int, sort string) (*upstream.Result, error)
	Create(ctx context.Context, req CreateRequest) (*upstream.Result, error)
	Cancel(ctx context.Context, id int) (*upstream.Result, error)
}

type service struct {
	client *upstream.Client
}

func NewService(client *upstream.Client) Service {
	return &service{client: client}
}

func (s *service) List(ctx context.Context, page int, sort string) (*upstream.Result, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", sort)

	return s.client.Get(ctx, "/api/schedules", q)
}

type resourceRef struct {
	ID int `json:"id"`
}

type timeslotPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type createPayload struct {
	Resources []resourceRef   `json:"resources"`
	Timeslot  timeslotPayload `json:"timeslot"`
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*upstream.Result, error) {
	payload := createPayload{
		Resources: []resourceRef{{ID: req.ResourceID}},
		Timeslot: timeslotPayload{
			Start: req.Start,
			End:   req.End,
		},
	}

	return s.client.Post(ctx, "/api/schedules", payload)
}

type statusPayload struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

func (s *service) Cancel(ctx context.Context, id int) (*upstream.Result, error) {
	payload := statusPayload{
		ID:     id,
		Status: StatusCancelled,
	}

	return s.client.Put(ctx, fmt.Sprintf("/api/schedules/%d/status", id), payload)
}
