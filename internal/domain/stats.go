package domain

// Stats aggregates per-collection counts for the admin dashboard.
type Stats struct {
	UsersByRole      map[Role]int
	Admins           int
	DonationsByState map[DonationStatus]int
	Requests         int
	PickupsByState   map[PickupStatus]int
}

// TotalUsers sums the per-role counts.
func (s Stats) TotalUsers() int { return sumCounts(s.UsersByRole) }

// TotalDonations sums the per-status counts.
func (s Stats) TotalDonations() int { return sumCounts(s.DonationsByState) }

// TotalPickups sums the per-status counts.
func (s Stats) TotalPickups() int { return sumCounts(s.PickupsByState) }

func sumCounts[K comparable](m map[K]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
