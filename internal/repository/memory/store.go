package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
)

// Store keeps all four collections behind one lock so cross-collection
// queries and the pickup donation guard observe a consistent view.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	requests  map[string]domain.BloodRequest
	donations map[string]domain.Donation
	pickups   map[string]domain.Pickup
	now       func() time.Time
	lastStamp time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		requests:  make(map[string]domain.BloodRequest),
		donations: make(map[string]domain.Donation),
		pickups:   make(map[string]domain.Pickup),
		now:       time.Now,
	}
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// BloodRequests returns the blood request repository view.
func (s *Store) BloodRequests() repository.BloodRequestRepository { return &bloodRequestRepo{s: s} }

// Donations returns the donation repository view.
func (s *Store) Donations() repository.DonationRepository { return &donationRepo{s: s} }

// Pickups returns the pickup repository view.
func (s *Store) Pickups() repository.PickupRepository { return &pickupRepo{s: s} }

// timestamp returns a strictly increasing creation time so newest-first
// ordering is stable within the clock's resolution. Requires the write lock.
func (s *Store) timestamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.lastStamp) {
		t = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = t
	return t
}

func newID() string {
	return uuid.NewString()
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func newestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
