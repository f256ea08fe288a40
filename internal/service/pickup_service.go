package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/lock"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
	"github.com/spec-kit/life-bridge/pkg/util/validation"
)

// PickupInput is the raw payload for scheduling a pickup.
type PickupInput struct {
	RequestID string `json:"requestId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Location  string `json:"location" validate:"required"`
}

// PickupService coordinates the pickup lifecycle.
type PickupService struct {
	pickups    repository.PickupRepository
	requests   repository.BloodRequestRepository
	donations  repository.DonationRepository
	users      repository.UserRepository
	locker     lock.Locker
	lockTTL    time.Duration
	lockWait   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PickupDependencies bundles collaborators for the pickup service.
type PickupDependencies struct {
	PickupRepo   repository.PickupRepository
	RequestRepo  repository.BloodRequestRepository
	DonationRepo repository.DonationRepository
	UserRepo     repository.UserRepository
	Locker       lock.Locker
	LockTTL      time.Duration
	LockWait     time.Duration
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewPickupService constructs the service.
func NewPickupService(deps PickupDependencies) *PickupService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &PickupService{
		pickups:    deps.PickupRepo,
		requests:   deps.RequestRepo,
		donations:  deps.DonationRepo,
		users:      deps.UserRepo,
		locker:     locker,
		lockTTL:    deps.LockTTL,
		lockWait:   deps.LockWait,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// SchedulePickup books a donor against an existing request.
func (s *PickupService) SchedulePickup(ctx context.Context, donorID string, input PickupInput) (*PickupView, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	requestID := strings.TrimSpace(input.RequestID)
	if !validID(requestID) {
		return nil, apperrors.NewNotFound("Blood request", nil)
	}
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Blood request", nil)
		}
		return nil, err
	}

	pickup := &domain.Pickup{
		DonorID:   donorID,
		RequestID: requestID,
		Date:      strings.TrimSpace(input.Date),
		Time:      strings.TrimSpace(input.Time),
		Location:  strings.TrimSpace(input.Location),
		Status:    domain.PickupStatusScheduled,
	}
	if err := s.pickups.Create(ctx, pickup); err != nil {
		return nil, err
	}
	return s.view(ctx, *pickup)
}

// ListPickups returns every pickup newest-first.
func (s *PickupService) ListPickups(ctx context.Context) ([]PickupView, error) {
	return s.list(ctx, repository.PickupFilter{})
}

// ListDonorPickups returns the donor's own pickups newest-first.
func (s *PickupService) ListDonorPickups(ctx context.Context, donorID string) ([]PickupView, error) {
	return s.list(ctx, repository.PickupFilter{DonorID: &donorID})
}

// UpdateStatus sets any known status on a pickup. Updates to one pickup
// are serialized; the new status is committed before any side effect, and
// side-effect failures are logged without failing the call.
func (s *PickupService) UpdateStatus(ctx context.Context, actorID, id, status string) (*PickupView, error) {
	next := domain.PickupStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, apperrors.NewValidationError("Invalid status",
			map[string]any{"validStatuses": domain.PickupStatusStrings()})
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound("Pickup", nil)
	}

	release, err := s.locker.Acquire(ctx, "pickup:"+id, s.lockTTL, s.lockWait)
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, apperrors.NewConflict("Pickup is being updated, try again", map[string]any{"pickupId": id})
		}
		return nil, err
	}
	defer release()

	pickup, err := s.pickups.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Pickup", nil)
		}
		return nil, err
	}
	previous := pickup.Status

	pickup.Status = next
	if err := s.pickups.Update(ctx, pickup); err != nil {
		return nil, err
	}

	request := s.resolveRequest(ctx, pickup.RequestID)
	if next == domain.PickupStatusCompleted {
		s.materializeDonation(ctx, *pickup, request)
	}

	publish(ctx, s.dispatcher, events.New(events.EventPickupStatusChanged, pickup.ID, actorID,
		events.PickupStatusChangedPayload{Pickup: *pickup, Request: request, OldStatus: previous, NewStatus: next}))

	return s.view(ctx, *pickup)
}

// materializeDonation records the completed transfer unless the donor
// already has a donation at this date and time or one exists for the pickup.
func (s *PickupService) materializeDonation(ctx context.Context, pickup domain.Pickup, request *domain.BloodRequest) {
	logger := s.logger.With(zap.String("pickup_id", pickup.ID))
	if request == nil {
		logger.Warn("skipping donation record: request missing", zap.String("request_id", pickup.RequestID))
		return
	}
	if _, err := s.users.GetByID(ctx, pickup.DonorID); err != nil {
		logger.Warn("skipping donation record: donor unresolved", zap.String("donor_id", pickup.DonorID), zap.Error(err))
		return
	}

	units := request.Units
	if units <= 0 {
		units = 1
	}
	recipientID := request.RequestedBy
	pickupID := pickup.ID
	donation := &domain.Donation{
		BloodGroup:    request.BloodGroup,
		Units:         units,
		Location:      pickup.Location,
		AvailableDate: pickup.Date,
		AvailableTime: pickup.Time,
		DonorID:       pickup.DonorID,
		Status:        domain.DonationStatusCompleted,
		RecipientID:   &recipientID,
		PickupID:      &pickupID,
	}

	created, err := s.donations.CreateForPickup(ctx, donation)
	switch {
	case err != nil:
		logger.Error("creating donation record failed", zap.Error(err))
	case created:
		logger.Info("donation record created for completed pickup", zap.String("donation_id", donation.ID))
	default:
		logger.Info("donation record already exists for pickup slot")
	}
}

func (s *PickupService) resolveRequest(ctx context.Context, id string) *domain.BloodRequest {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Warn("resolving pickup request failed", zap.String("request_id", id), zap.Error(err))
		}
		return nil
	}
	return request
}

func (s *PickupService) view(ctx context.Context, p domain.Pickup) (*PickupView, error) {
	view, err := newPopulator(s.users, s.requests).pickup(ctx, p)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *PickupService) list(ctx context.Context, filter repository.PickupFilter) ([]PickupView, error) {
	items, err := s.pickups.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPopulator(s.users, s.requests).pickups(ctx, items)
}
