package memory

import (
	"context"
	"time"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

type pickupRepo struct {
	s *Store
}

func (r *pickupRepo) Create(ctx context.Context, pickup *domain.Pickup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pickup.ID = newID()
	pickup.CreatedAt = r.s.timestamp()
	pickup.UpdatedAt = pickup.CreatedAt
	r.s.pickups[pickup.ID] = *pickup
	return nil
}

func (r *pickupRepo) Update(ctx context.Context, pickup *domain.Pickup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.pickups[pickup.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Status = pickup.Status
	existing.UpdatedAt = r.s.now().UTC()
	pickup.UpdatedAt = existing.UpdatedAt
	r.s.pickups[pickup.ID] = existing
	return nil
}

func (r *pickupRepo) GetByID(ctx context.Context, id string) (*domain.Pickup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pickup, ok := r.s.pickups[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &pickup, nil
}

func (r *pickupRepo) List(ctx context.Context, filter repository.PickupFilter) ([]domain.Pickup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Pickup, 0, len(r.s.pickups))
	for _, pickup := range r.s.pickups {
		if filter.DonorID != nil && pickup.DonorID != *filter.DonorID {
			continue
		}
		if filter.RequestID != nil && pickup.RequestID != *filter.RequestID {
			continue
		}
		if filter.Status != nil && pickup.Status != *filter.Status {
			continue
		}
		out = append(out, pickup)
	}
	newestFirst(out, func(p domain.Pickup) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *pickupRepo) CountByStatus(ctx context.Context) (map[domain.PickupStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.PickupStatus]int, len(domain.PickupStatuses))
	for _, pickup := range r.s.pickups {
		counts[pickup.Status]++
	}
	return counts, nil
}
