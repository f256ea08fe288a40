package dto

import "github.com/spec-kit/life-bridge/internal/domain"

// StatsResponse is the admin dashboard aggregate.
type StatsResponse struct {
	Users struct {
		Total      int `json:"total"`
		Donors     int `json:"donors"`
		Recipients int `json:"recipients"`
		AdminRole  int `json:"adminRole"`
		Admins     int `json:"admins"`
	} `json:"users"`
	Donations struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Approved  int `json:"approved"`
		Completed int `json:"completed"`
		Rejected  int `json:"rejected"`
	} `json:"donations"`
	Requests struct {
		Total int `json:"total"`
	} `json:"requests"`
	Pickups struct {
		Total     int `json:"total"`
		Scheduled int `json:"scheduled"`
		Completed int `json:"completed"`
		Cancelled int `json:"cancelled"`
	} `json:"pickups"`
}

// NewStatsResponse maps domain stats.
func NewStatsResponse(s domain.Stats) StatsResponse {
	var r StatsResponse
	r.Users.Total = s.TotalUsers()
	r.Users.Donors = s.UsersByRole[domain.RoleDonor]
	r.Users.Recipients = s.UsersByRole[domain.RoleRecipient]
	r.Users.AdminRole = s.UsersByRole[domain.RoleAdmin]
	r.Users.Admins = s.Admins

	r.Donations.Total = s.TotalDonations()
	r.Donations.Pending = s.DonationsByState[domain.DonationStatusPending]
	r.Donations.Approved = s.DonationsByState[domain.DonationStatusApproved]
	r.Donations.Completed = s.DonationsByState[domain.DonationStatusCompleted]
	r.Donations.Rejected = s.DonationsByState[domain.DonationStatusRejected]

	r.Requests.Total = s.Requests

	r.Pickups.Total = s.TotalPickups()
	r.Pickups.Scheduled = s.PickupsByState[domain.PickupStatusScheduled]
	r.Pickups.Completed = s.PickupsByState[domain.PickupStatusCompleted]
	r.Pickups.Cancelled = s.PickupsByState[domain.PickupStatusCancelled]
	return r
}
