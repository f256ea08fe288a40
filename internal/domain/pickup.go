package domain

import "time"

// PickupStatus enumerates lifecycle states for pickups.
type PickupStatus string

const (
	PickupStatusScheduled PickupStatus = "scheduled"
	PickupStatusCompleted PickupStatus = "completed"
	PickupStatusCancelled PickupStatus = "cancelled"
)

// PickupStatuses lists every pickup status.
var PickupStatuses = []PickupStatus{
	PickupStatusScheduled,
	PickupStatusCompleted,
	PickupStatusCancelled,
}

// Pickup links a donor to a specific blood request at a date and time.
type Pickup struct {
	ID        string
	DonorID   string
	RequestID string
	Date      string
	Time      string
	Location  string
	Status    PickupStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid reports whether s is a known pickup status. Completed and cancelled
// end the normal lifecycle, but updates may still set any known status.
func (s PickupStatus) Valid() bool {
	for _, candidate := range PickupStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// PickupStatusStrings returns every status as a string.
func PickupStatusStrings() []string {
	out := make([]string, 0, len(PickupStatuses))
	for _, s := range PickupStatuses {
		out = append(out, string(s))
	}
	return out
}
