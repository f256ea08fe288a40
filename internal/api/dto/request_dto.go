package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/life-bridge/internal/service"
)

// CreateRequestRequest payload for a new blood request. Units accepts a
// JSON number or numeric string.
type CreateRequestRequest struct {
	BloodGroup string      `json:"bloodGroup"`
	Units      json.Number `json:"units"`
	Location   string      `json:"location"`
}

// ToInput converts the payload to a service input.
func (r CreateRequestRequest) ToInput() service.RequestInput {
	return service.RequestInput{BloodGroup: r.BloodGroup, Units: r.Units.String(), Location: r.Location}
}

// RequestResponse is a blood request with its requester populated.
type RequestResponse struct {
	ID          string    `json:"id"`
	BloodGroup  string    `json:"bloodGroup"`
	Units       int       `json:"units"`
	Location    string    `json:"location"`
	RequestedBy UserRef   `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRequestResponse maps a request view.
func NewRequestResponse(v service.RequestView) RequestResponse {
	return RequestResponse{
		ID:          v.Request.ID,
		BloodGroup:  string(v.Request.BloodGroup),
		Units:       v.Request.Units,
		Location:    v.Request.Location,
		RequestedBy: NewUserRef(v.Requester),
		CreatedAt:   v.Request.CreatedAt,
	}
}

// NewRequestList maps request views.
func NewRequestList(views []service.RequestView) []RequestResponse {
	out := make([]RequestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewRequestResponse(v))
	}
	return out
}
