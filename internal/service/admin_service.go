package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/auth"
	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

// AdminService backs the admin control surface.
type AdminService struct {
	users     repository.UserRepository
	requests  repository.BloodRequestRepository
	donations repository.DonationRepository
	pickups   repository.PickupRepository
	logger    *zap.Logger
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo     repository.UserRepository
	RequestRepo  repository.BloodRequestRepository
	DonationRepo repository.DonationRepository
	PickupRepo   repository.PickupRepository
	Logger       *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:     deps.UserRepo,
		requests:  deps.RequestRepo,
		donations: deps.DonationRepo,
		pickups:   deps.PickupRepo,
		logger:    logger,
	}
}

// ListUsers returns every user newest-first.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx, repository.UserFilter{})
}

// ListRequests returns every request newest-first with requesters resolved.
func (s *AdminService) ListRequests(ctx context.Context) ([]RequestView, error) {
	items, err := s.requests.List(ctx, repository.BloodRequestFilter{})
	if err != nil {
		return nil, err
	}
	return newPopulator(s.users, s.requests).requestList(ctx, items)
}

// SetUserAdmin flips the admin flag. Promotion also forces the admin role.
func (s *AdminService) SetUserAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	user.SetAdmin(isAdmin)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user admin flag updated", zap.String("user_id", id), zap.Bool("is_admin", isAdmin))
	return user, nil
}

// Stats gathers grouped counts for every collection.
func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	byDonation, err := s.donations.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.Count(ctx)
	if err != nil {
		return nil, err
	}
	byPickup, err := s.pickups.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{
		UsersByRole:      byRole,
		Admins:           admins,
		DonationsByState: byDonation,
		Requests:         requests,
		PickupsByState:   byPickup,
	}, nil
}

// EnsureDefaultAdmin creates the bootstrap admin unless an admin already exists.
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context, cfg config.BootstrapConfig, bcryptCost int) error {
	if !cfg.Enabled {
		return nil
	}
	admins, err := s.users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		s.logger.Warn("bootstrap admin email already registered to a non-admin", zap.String("email", cfg.AdminEmail))
		return nil
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		BloodGroup:   domain.BloodGroupOPos,
		Role:         domain.RoleAdmin,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("default admin created", zap.String("email", admin.Email))
	return nil
}
