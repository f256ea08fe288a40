package memory

import (
	"context"
	"time"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

type bloodRequestRepo struct {
	s *Store
}

func (r *bloodRequestRepo) Create(ctx context.Context, request *domain.BloodRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request.ID = newID()
	request.CreatedAt = r.s.timestamp()
	r.s.requests[request.ID] = *request
	return nil
}

func (r *bloodRequestRepo) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	request, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &request, nil
}

func (r *bloodRequestRepo) List(ctx context.Context, filter repository.BloodRequestFilter) ([]domain.BloodRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fulfilled := map[string]bool{}
	if filter.ExcludeCompletedPickups {
		for _, pickup := range r.s.pickups {
			if pickup.Status == domain.PickupStatusCompleted {
				fulfilled[pickup.RequestID] = true
			}
		}
	}

	out := make([]domain.BloodRequest, 0, len(r.s.requests))
	for _, request := range r.s.requests {
		if filter.BloodGroup != nil && request.BloodGroup != *filter.BloodGroup {
			continue
		}
		if filter.RequestedBy != nil && request.RequestedBy != *filter.RequestedBy {
			continue
		}
		if fulfilled[request.ID] {
			continue
		}
		out = append(out, request)
	}
	newestFirst(out, func(br domain.BloodRequest) time.Time { return br.CreatedAt })
	return out, nil
}

func (r *bloodRequestRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.requests), nil
}
