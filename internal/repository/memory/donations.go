package memory

import (
	"context"
	"time"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

type donationRepo struct {
	s *Store
}

func (r *donationRepo) Create(ctx context.Context, donation *domain.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.insert(donation)
	return nil
}

func (r *donationRepo) CreateForPickup(ctx context.Context, donation *domain.Donation) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.donations {
		if existing.DonorID == donation.DonorID &&
			existing.AvailableDate == donation.AvailableDate &&
			existing.AvailableTime == donation.AvailableTime {
			return false, nil
		}
		if donation.PickupID != nil && existing.PickupID != nil && *existing.PickupID == *donation.PickupID {
			return false, nil
		}
	}
	r.insert(donation)
	return true, nil
}

// insert requires the write lock.
func (r *donationRepo) insert(donation *domain.Donation) {
	donation.ID = newID()
	donation.CreatedAt = r.s.timestamp()
	donation.UpdatedAt = donation.CreatedAt
	r.s.donations[donation.ID] = cloneDonation(*donation)
}

func (r *donationRepo) Update(ctx context.Context, donation *domain.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.donations[donation.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Status = donation.Status
	existing.RecipientID = cloneString(donation.RecipientID)
	existing.UpdatedAt = r.s.now().UTC()
	donation.UpdatedAt = existing.UpdatedAt
	r.s.donations[donation.ID] = existing
	return nil
}

func (r *donationRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.donations[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.donations, id)
	return nil
}

func (r *donationRepo) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	donation, ok := r.s.donations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneDonation(donation)
	return &out, nil
}

func (r *donationRepo) List(ctx context.Context, filter repository.DonationFilter) ([]domain.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Donation, 0, len(r.s.donations))
	for _, donation := range r.s.donations {
		if filter.DonorID != nil && donation.DonorID != *filter.DonorID {
			continue
		}
		out = append(out, cloneDonation(donation))
	}
	newestFirst(out, func(d domain.Donation) time.Time { return d.CreatedAt })
	return out, nil
}

func (r *donationRepo) CountByStatus(ctx context.Context) (map[domain.DonationStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.DonationStatus]int, len(domain.DonationStatuses))
	for _, donation := range r.s.donations {
		counts[donation.Status]++
	}
	return counts, nil
}

func cloneDonation(d domain.Donation) domain.Donation {
	d.RecipientID = cloneString(d.RecipientID)
	d.PickupID = cloneString(d.PickupID)
	return d
}
