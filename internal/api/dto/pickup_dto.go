package dto

import (
	"time"

	"github.com/spec-kit/life-bridge/internal/service"
)

// SchedulePickupRequest payload for booking a pickup.
type SchedulePickupRequest struct {
	RequestID string `json:"requestId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Location  string `json:"location"`
}

// ToInput converts the payload to a service input.
func (r SchedulePickupRequest) ToInput() service.PickupInput {
	return service.PickupInput{RequestID: r.RequestID, Date: r.Date, Time: r.Time, Location: r.Location}
}

// UpdatePickupRequest changes a pickup's status.
type UpdatePickupRequest struct {
	Status string `json:"status"`
}

// RequestRef is a populated request reference.
type RequestRef struct {
	ID          string   `json:"id"`
	BloodGroup  string   `json:"bloodGroup,omitempty"`
	Units       int      `json:"units,omitempty"`
	Location    string   `json:"location,omitempty"`
	RequestedBy *UserRef `json:"requestedBy,omitempty"`
	Orphaned    bool     `json:"orphaned,omitempty"`
}

// PickupResponse is a pickup with donor and request populated.
type PickupResponse struct {
	ID        string     `json:"id"`
	Donor     UserRef    `json:"donor"`
	Request   RequestRef `json:"request"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Location  string     `json:"location"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewPickupResponse maps a pickup view.
func NewPickupResponse(v service.PickupView) PickupResponse {
	p := v.Pickup
	req := RequestRef{ID: v.Request.ID, Orphaned: v.Request.Orphaned()}
	if rv := v.Request.View; rv != nil {
		requester := NewUserRef(rv.Requester)
		req.BloodGroup = string(rv.Request.BloodGroup)
		req.Units = rv.Request.Units
		req.Location = rv.Request.Location
		req.RequestedBy = &requester
	}
	return PickupResponse{
		ID:        p.ID,
		Donor:     NewUserRef(v.Donor),
		Request:   req,
		Date:      p.Date,
		Time:      p.Time,
		Location:  p.Location,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewPickupList maps pickup views.
func NewPickupList(views []service.PickupView) []PickupResponse {
	out := make([]PickupResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewPickupResponse(v))
	}
	return out
}
