package service

import (
	"context"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

// UserRef is a resolved user reference. User is nil when the id no longer
// resolves.
type UserRef struct {
	ID   string
	User *domain.User
}

// Orphaned reports whether the referenced user is missing.
func (r UserRef) Orphaned() bool { return r.User == nil }

// RequestView is a blood request with its requester resolved.
type RequestView struct {
	Request   domain.BloodRequest
	Requester UserRef
}

// RequestRef is a resolved request reference.
type RequestRef struct {
	ID   string
	View *RequestView
}

// Orphaned reports whether the referenced request is missing.
func (r RequestRef) Orphaned() bool { return r.View == nil }

// DonationView is a donation with donor and recipient resolved.
type DonationView struct {
	Donation  domain.Donation
	Donor     UserRef
	Recipient *UserRef
}

// PickupView is a pickup with donor and request resolved.
type PickupView struct {
	Pickup  domain.Pickup
	Donor   UserRef
	Request RequestRef
}

// populator resolves references for one call, caching lookups so a listing
// touches each referenced row once.
type populator struct {
	users    repository.UserRepository
	requests repository.BloodRequestRepository
	userMemo map[string]*domain.User
	reqMemo  map[string]*domain.BloodRequest
}

func newPopulator(users repository.UserRepository, requests repository.BloodRequestRepository) *populator {
	return &populator{
		users:    users,
		requests: requests,
		userMemo: make(map[string]*domain.User),
		reqMemo:  make(map[string]*domain.BloodRequest),
	}
}

func (p *populator) user(ctx context.Context, id string) (UserRef, error) {
	if u, ok := p.userMemo[id]; ok {
		return UserRef{ID: id, User: u}, nil
	}
	u, err := p.users.GetByID(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return UserRef{}, err
		}
		u = nil
	}
	p.userMemo[id] = u
	return UserRef{ID: id, User: u}, nil
}

func (p *populator) request(ctx context.Context, req domain.BloodRequest) (RequestView, error) {
	requester, err := p.user(ctx, req.RequestedBy)
	if err != nil {
		return RequestView{}, err
	}
	return RequestView{Request: req, Requester: requester}, nil
}

func (p *populator) requestRef(ctx context.Context, id string) (RequestRef, error) {
	req, ok := p.reqMemo[id]
	if !ok {
		found, err := p.requests.GetByID(ctx, id)
		if err != nil && !apperrors.IsNotFound(err) {
			return RequestRef{}, err
		}
		if err == nil {
			req = found
		}
		p.reqMemo[id] = req
	}
	if req == nil {
		return RequestRef{ID: id}, nil
	}
	view, err := p.request(ctx, *req)
	if err != nil {
		return RequestRef{}, err
	}
	return RequestRef{ID: id, View: &view}, nil
}

func (p *populator) donation(ctx context.Context, d domain.Donation) (DonationView, error) {
	donor, err := p.user(ctx, d.DonorID)
	if err != nil {
		return DonationView{}, err
	}
	view := DonationView{Donation: d, Donor: donor}
	if d.RecipientID != nil {
		recipient, err := p.user(ctx, *d.RecipientID)
		if err != nil {
			return DonationView{}, err
		}
		view.Recipient = &recipient
	}
	return view, nil
}

func (p *populator) pickup(ctx context.Context, pk domain.Pickup) (PickupView, error) {
	donor, err := p.user(ctx, pk.DonorID)
	if err != nil {
		return PickupView{}, err
	}
	req, err := p.requestRef(ctx, pk.RequestID)
	if err != nil {
		return PickupView{}, err
	}
	return PickupView{Pickup: pk, Donor: donor, Request: req}, nil
}

func (p *populator) requestList(ctx context.Context, items []domain.BloodRequest) ([]RequestView, error) {
	out := make([]RequestView, 0, len(items))
	for _, item := range items {
		v, err := p.request(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *populator) donations(ctx context.Context, items []domain.Donation) ([]DonationView, error) {
	out := make([]DonationView, 0, len(items))
	for _, item := range items {
		v, err := p.donation(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *populator) pickups(ctx context.Context, items []domain.Pickup) ([]PickupView, error) {
	out := make([]PickupView, 0, len(items))
	for _, item := range items {
		v, err := p.pickup(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
