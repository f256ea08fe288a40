package memory

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, existing := range r.s.users {
		if existing.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = newID()
	user.Email = email
	user.CreatedAt = r.s.timestamp()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Email = existing.Email
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.now().UTC()
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range r.s.users {
		if user.Email == email {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *userRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.BloodGroup != nil && user.BloodGroup != *filter.BloodGroup {
			continue
		}
		if filter.ExcludeID != nil && user.ID == *filter.ExcludeID {
			continue
		}
		if filter.IsAdmin != nil && user.IsAdmin != *filter.IsAdmin {
			continue
		}
		out = append(out, cloneUser(user))
	}
	newestFirst(out, func(u domain.User) time.Time { return u.CreatedAt })
	return out, nil
}

func (r *userRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.Role]int, len(domain.Roles))
	for _, user := range r.s.users {
		counts[user.Role]++
	}
	return counts, nil
}

func (r *userRepo) CountAdmins(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, user := range r.s.users {
		if user.IsAdmin {
			count++
		}
	}
	return count, nil
}

func cloneUser(u domain.User) domain.User {
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	if u.Location.Lat != nil {
		lat := *u.Location.Lat
		u.Location.Lat = &lat
	}
	if u.Location.Lng != nil {
		lng := *u.Location.Lng
		u.Location.Lng = &lng
	}
	return u
}
