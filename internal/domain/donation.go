package domain

import "time"

// DonationStatus enumerates lifecycle states for donations.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusApproved  DonationStatus = "approved"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusRejected  DonationStatus = "rejected"
)

// DonationStatuses lists every donation status.
var DonationStatuses = []DonationStatus{
	DonationStatusPending,
	DonationStatusApproved,
	DonationStatusCompleted,
	DonationStatusRejected,
}

// MaxDonationUnits caps a single donor offer.
const MaxDonationUnits = 3

// Donation is a donor's offer and, once completed, the record of a transfer.
type Donation struct {
	ID            string
	BloodGroup    BloodGroup
	Units         int
	Location      string
	AvailableDate string
	AvailableTime string
	DonorID       string
	Status        DonationStatus
	RecipientID   *string
	PickupID      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Valid reports whether s is a known donation status. Any known status may
// replace any other.
func (s DonationStatus) Valid() bool {
	for _, candidate := range DonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// NotifiesDonor reports whether moving into s emails the donor.
func (s DonationStatus) NotifiesDonor() bool {
	return s == DonationStatusApproved || s == DonationStatusCompleted
}

// DonationStatusStrings returns every status as a string.
func DonationStatusStrings() []string {
	out := make([]string, 0, len(DonationStatuses))
	for _, s := range DonationStatuses {
		out = append(out, string(s))
	}
	return out
}
