package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
	"github.com/spec-kit/life-bridge/pkg/util/validation"
)

// DonationInput is the raw payload for a donor offer.
type DonationInput struct {
	BloodGroup    string `json:"bloodGroup" validate:"required"`
	Units         string `json:"units" validate:"required"`
	Location      string `json:"location" validate:"required"`
	AvailableDate string `json:"availableDate" validate:"required"`
	AvailableTime string `json:"availableTime" validate:"required"`
}

// DonationUpdate changes a donation's status and/or recipient. Empty fields
// are left alone.
type DonationUpdate struct {
	Status      string
	RecipientID *string
}

// DonationService coordinates donation workflows.
type DonationService struct {
	donations  repository.DonationRepository
	users      repository.UserRepository
	requests   repository.BloodRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DonationDependencies bundles repositories for the donation service.
type DonationDependencies struct {
	DonationRepo repository.DonationRepository
	UserRepo     repository.UserRepository
	RequestRepo  repository.BloodRequestRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewDonationService constructs the service.
func NewDonationService(deps DonationDependencies) *DonationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donations:  deps.DonationRepo,
		users:      deps.UserRepo,
		requests:   deps.RequestRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateDonation records a pending offer and alerts matching recipients.
func (s *DonationService) CreateDonation(ctx context.Context, donorID string, input DonationInput) (*DonationView, error) {
	input.Units = blankZeroUnits(input.Units)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	group, err := parseBloodGroup(input.BloodGroup)
	if err != nil {
		return nil, err
	}
	units, err := parseUnits(input.Units, domain.MaxDonationUnits)
	if err != nil {
		return nil, err
	}

	donation := &domain.Donation{
		BloodGroup:    group,
		Units:         units,
		Location:      strings.TrimSpace(input.Location),
		AvailableDate: strings.TrimSpace(input.AvailableDate),
		AvailableTime: strings.TrimSpace(input.AvailableTime),
		DonorID:       donorID,
		Status:        domain.DonationStatusPending,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.New(events.EventDonationCreated, donation.ID, donorID,
		events.DonationCreatedPayload{Donation: *donation}))

	return s.view(ctx, *donation)
}

// GetDonation fetches one donation with references resolved.
func (s *DonationService) GetDonation(ctx context.Context, id string) (*DonationView, error) {
	donation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *donation)
}

// ListDonations returns every donation newest-first.
func (s *DonationService) ListDonations(ctx context.Context) ([]DonationView, error) {
	return s.list(ctx, repository.DonationFilter{})
}

// ListDonorDonations returns the donor's own donations newest-first.
func (s *DonationService) ListDonorDonations(ctx context.Context, donorID string) ([]DonationView, error) {
	return s.list(ctx, repository.DonationFilter{DonorID: &donorID})
}

// UpdateDonation applies a status and/or recipient change. Any known status
// replaces the current one. The donor is emailed when the donation becomes
// approved or completed.
func (s *DonationService) UpdateDonation(ctx context.Context, actorID, id string, update DonationUpdate) (*DonationView, error) {
	next := domain.DonationStatus(strings.TrimSpace(update.Status))
	if next != "" && !next.Valid() {
		return nil, apperrors.NewValidationError("Invalid status",
			map[string]any{"validStatuses": domain.DonationStatusStrings()})
	}

	donation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := donation.Status
	if next != "" {
		donation.Status = next
	}

	if update.RecipientID != nil && *update.RecipientID != "" {
		recipientID := *update.RecipientID
		if !validID(recipientID) {
			return nil, apperrors.NewNotFound("Recipient", map[string]any{"recipientId": recipientID})
		}
		if _, err := s.users.GetByID(ctx, recipientID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewNotFound("Recipient", map[string]any{"recipientId": recipientID})
			}
			return nil, err
		}
		donation.RecipientID = &recipientID
	}

	if err := s.donations.Update(ctx, donation); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Donation", nil)
		}
		return nil, err
	}

	if next != "" && next.NotifiesDonor() {
		publish(ctx, s.dispatcher, events.New(events.EventDonationStatusChanged, donation.ID, actorID,
			events.DonationStatusChangedPayload{Donation: *donation, OldStatus: previous, NewStatus: next}))
	}

	return s.view(ctx, *donation)
}

// DeleteDonation removes a donation owned by requesterID.
func (s *DonationService) DeleteDonation(ctx context.Context, id, requesterID string) error {
	donation, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if donation.DonorID != requesterID {
		return apperrors.NewUnauthorized("Not authorized to delete this donation")
	}
	if err := s.donations.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Donation", nil)
		}
		return err
	}
	s.logger.Info("donation removed", zap.String("donation_id", id), zap.String("donor_id", requesterID))
	return nil
}

func (s *DonationService) get(ctx context.Context, id string) (*domain.Donation, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("Donation", nil)
	}
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Donation", nil)
		}
		return nil, err
	}
	return donation, nil
}

func (s *DonationService) view(ctx context.Context, d domain.Donation) (*DonationView, error) {
	view, err := newPopulator(s.users, s.requests).donation(ctx, d)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *DonationService) list(ctx context.Context, filter repository.DonationFilter) ([]DonationView, error) {
	items, err := s.donations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPopulator(s.users, s.requests).donations(ctx, items)
}
