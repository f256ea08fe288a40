package domain

import "time"

// BloodRequest is a standing need posted by a recipient. It has no status of
// its own; it counts as fulfilled once a completed pickup references it.
type BloodRequest struct {
	ID          string
	BloodGroup  BloodGroup
	Units       int
	Location    string
	RequestedBy string
	CreatedAt   time.Time
}
