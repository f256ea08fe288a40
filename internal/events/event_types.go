package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/life-bridge/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated        EventType = "request_created"
	EventDonationCreated       EventType = "donation_created"
	EventDonationStatusChanged EventType = "donation_status_changed"
	EventPickupStatusChanged   EventType = "pickup_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, entityID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Request domain.BloodRequest `json:"request"`
}

// DonationCreatedPayload payload.
type DonationCreatedPayload struct {
	Donation domain.Donation `json:"donation"`
}

// DonationStatusChangedPayload payload.
type DonationStatusChangedPayload struct {
	Donation  domain.Donation       `json:"donation"`
	OldStatus domain.DonationStatus `json:"old_status"`
	NewStatus domain.DonationStatus `json:"new_status"`
}

// PickupStatusChangedPayload payload. Request is nil when the pickup's
// request no longer resolves.
type PickupStatusChangedPayload struct {
	Pickup    domain.Pickup        `json:"pickup"`
	Request   *domain.BloodRequest `json:"request,omitempty"`
	OldStatus domain.PickupStatus  `json:"old_status"`
	NewStatus domain.PickupStatus  `json:"new_status"`
}
