package http

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
	"github.com/nekogravitycat/hourglass-gateway/internal/schedule"
)

// ScheduleIDPrefix is an optional prefix the front end attaches to
// schedule ids; the upstream wants the bare number.
const ScheduleIDPrefix = "event_"

// ScheduleResourceBody is one element of the resources array. The id is
// kept loosely typed so both numbers and numeric strings are accepted;
// every other field the client may send is ignored.
type ScheduleResourceBody struct {
	ID any `json:"id"`
}

// TimeslotBody carries the schedule bounds. Both are opaque date-time
// strings passed through unchanged.
type TimeslotBody struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CreateScheduleRequest defines the body for creating a schedule.
type CreateScheduleRequest struct {
	Resources []ScheduleResourceBody `json:"resources"`
	Timeslot  *TimeslotBody          `json:"timeslot"`
}

// Validate performs custom validation for CreateScheduleRequest.
func (r *CreateScheduleRequest) Validate() error {
	if len(r.Resources) == 0 {
		return apperror.Validation("resources must be a non-empty array")
	}
	if r.Timeslot == nil {
		return apperror.Validation("timeslot is required")
	}
	return nil
}

// ResourceID extracts the first resource's id coerced to an integer.
func (r *CreateScheduleRequest) ResourceID() (int, error) {
	id, ok := coerceInt(r.Resources[0].ID)
	if !ok {
		return 0, apperror.Validation("resources[0].id must be an integer")
	}
	return id, nil
}

// coerceInt converts the loosely typed id values JSON decoding can
// produce into an int.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// UpdateStatusRequest defines the body for a schedule status update.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate performs custom validation for UpdateStatusRequest.
// Cancellation is the only transition the gateway supports.
func (r *UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return apperror.Validation("status is required")
	}
	if r.Status != schedule.StatusCancelled {
		return apperror.Validation("status must be %q", schedule.StatusCancelled)
	}
	return nil
}

// ParseScheduleID strips the optional event_ prefix and parses the
// remainder as an integer. The error names the raw value the client sent.
func ParseScheduleID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(raw, ScheduleIDPrefix))
	if err != nil {
		return 0, apperror.Validation("invalid schedule id %q: expected an integer, optionally prefixed with %q", raw, ScheduleIDPrefix)
	}
	return id, nil
}
