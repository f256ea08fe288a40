package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/life-bridge/internal/service"
)

// CreateDonationRequest payload for a donor offer.
type CreateDonationRequest struct {
	BloodGroup    string      `json:"bloodGroup"`
	Units         json.Number `json:"units"`
	Location      string      `json:"location"`
	AvailableDate string      `json:"availableDate"`
	AvailableTime string      `json:"availableTime"`
}

// ToInput converts the payload to a service input.
func (r CreateDonationRequest) ToInput() service.DonationInput {
	return service.DonationInput{
		BloodGroup:    r.BloodGroup,
		Units:         r.Units.String(),
		Location:      r.Location,
		AvailableDate: r.AvailableDate,
		AvailableTime: r.AvailableTime,
	}
}

// UpdateDonationRequest changes status and/or recipient.
type UpdateDonationRequest struct {
	Status      string  `json:"status"`
	RecipientID *string `json:"recipientId"`
}

// ToUpdate converts the payload to a service update.
func (r UpdateDonationRequest) ToUpdate() service.DonationUpdate {
	return service.DonationUpdate{Status: r.Status, RecipientID: r.RecipientID}
}

// DonationResponse is a donation with donor and recipient populated.
type DonationResponse struct {
	ID            string    `json:"id"`
	BloodGroup    string    `json:"bloodGroup"`
	Units         int       `json:"units"`
	Location      string    `json:"location"`
	AvailableDate string    `json:"availableDate"`
	AvailableTime string    `json:"availableTime"`
	Status        string    `json:"status"`
	Donor         UserRef   `json:"donor"`
	Recipient     *UserRef  `json:"recipient,omitempty"`
	PickupID      *string   `json:"pickupId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewDonationResponse maps a donation view.
func NewDonationResponse(v service.DonationView) DonationResponse {
	d := v.Donation
	resp := DonationResponse{
		ID:            d.ID,
		BloodGroup:    string(d.BloodGroup),
		Units:         d.Units,
		Location:      d.Location,
		AvailableDate: d.AvailableDate,
		AvailableTime: d.AvailableTime,
		Status:        string(d.Status),
		Donor:         NewUserRef(v.Donor),
		PickupID:      d.PickupID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if v.Recipient != nil {
		ref := NewUserRef(*v.Recipient)
		resp.Recipient = &ref
	}
	return resp
}

// NewDonationList maps donation views.
func NewDonationList(views []service.DonationView) []DonationResponse {
	out := make([]DonationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewDonationResponse(v))
	}
	return out
}
