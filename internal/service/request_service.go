package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
	"github.com/spec-kit/life-bridge/pkg/util/validation"
)

// RequestInput is the raw payload for a new blood request.
type RequestInput struct {
	BloodGroup string `json:"bloodGroup" validate:"required"`
	Units      string `json:"units" validate:"required"`
	Location   string `json:"location" validate:"required"`
}

// RequestListFilter narrows request listings. Empty fields do not filter.
type RequestListFilter struct {
	BloodGroup              string
	ExcludeCompletedPickups bool
}

// RequestService coordinates blood request workflows.
type RequestService struct {
	requests   repository.BloodRequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(requests repository.BloodRequestRepository, users repository.UserRepository, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{requests: requests, users: users, dispatcher: dispatcher}
}

// CreateRequest validates and persists a request, then announces it to every
// other user. The request stays persisted when an announcement cannot be
// queued, but the call fails.
func (s *RequestService) CreateRequest(ctx context.Context, requesterID string, input RequestInput) (*RequestView, error) {
	input.Units = blankZeroUnits(input.Units)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	group, err := parseBloodGroup(input.BloodGroup)
	if err != nil {
		return nil, err
	}
	units, err := parseUnits(input.Units, 0)
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(input.Location)
	if utf8.RuneCountInString(location) < 3 {
		return nil, apperrors.NewValidationError("Invalid location",
			map[string]any{"details": "Location must be a string with at least 3 characters"})
	}

	req := &domain.BloodRequest{
		BloodGroup:  group,
		Units:       units,
		Location:    location,
		RequestedBy: requesterID,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.New(events.EventRequestCreated, req.ID, requesterID, events.RequestCreatedPayload{Request: *req})
		if err := s.dispatcher.PublishAll(ctx, event); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	view, err := newPopulator(s.users, s.requests).request(ctx, *req)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListRequests returns requests newest-first.
func (s *RequestService) ListRequests(ctx context.Context, filter RequestListFilter) ([]RequestView, error) {
	repoFilter := repository.BloodRequestFilter{ExcludeCompletedPickups: filter.ExcludeCompletedPickups}
	if filter.BloodGroup != "" {
		group := domain.BloodGroup(strings.TrimSpace(filter.BloodGroup))
		repoFilter.BloodGroup = &group
	}
	return s.list(ctx, repoFilter)
}

// ListUserRequests returns the caller's own requests newest-first.
func (s *RequestService) ListUserRequests(ctx context.Context, userID string) ([]RequestView, error) {
	return s.list(ctx, repository.BloodRequestFilter{RequestedBy: &userID})
}

func (s *RequestService) list(ctx context.Context, filter repository.BloodRequestFilter) ([]RequestView, error) {
	items, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPopulator(s.users, s.requests).requestList(ctx, items)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	dispatcher.Publish(ctx, event)
}
