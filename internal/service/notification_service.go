package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/notify"
	"github.com/spec-kit/life-bridge/internal/repository"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

// NotificationService turns domain events into queued emails. It is the
// only place that decides who hears about what; delivery happens later in
// the worker pool, so nothing here can fail or slow the triggering request
// beyond the enqueue itself.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      notify.Queue
	users      repository.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, queue notify.Queue, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		users:      users,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventDonationCreated, n.handleDonationCreated)
	n.dispatcher.Subscribe(events.EventDonationStatusChanged, n.handleDonationStatusChanged)
	n.dispatcher.Subscribe(events.EventPickupStatusChanged, n.handlePickupStatusChanged)
}

// handleRequestCreated alerts every user other than the requester.
func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	req := payload.Request

	recipients, err := n.users.List(ctx, repository.UserFilter{ExcludeID: &req.RequestedBy})
	if err != nil {
		return err
	}

	var errs []error
	for _, u := range recipients {
		errs = append(errs, n.enqueue(ctx, event, notify.Message{
			To:      u.Email,
			Subject: "Blood Request Alert",
			Body: fmt.Sprintf("Hello %s,\n\nA new blood request has been made:\n\nBlood Group: %s\nUnits: %d\nLocation: %s\n\nPlease login to Life Bridge if you're available to donate.",
				u.Name, req.BloodGroup, req.Units, req.Location),
		}))
	}
	return errors.Join(errs...)
}

// handleDonationCreated alerts recipients whose blood group matches the offer.
func (n *NotificationService) handleDonationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DonationCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	d := payload.Donation

	role := domain.RoleRecipient
	recipients, err := n.users.List(ctx, repository.UserFilter{Role: &role, BloodGroup: &d.BloodGroup})
	if err != nil {
		return err
	}

	var errs []error
	for _, u := range recipients {
		errs = append(errs, n.enqueue(ctx, event, notify.Message{
			To:      u.Email,
			Subject: "New Blood Donation Available",
			Body: fmt.Sprintf("Good news! A donor has offered %d unit(s) of %s blood available on %s at %s. Log in to your account to connect with this donor.",
				d.Units, d.BloodGroup, d.AvailableDate, d.AvailableTime),
		}))
	}
	return errors.Join(errs...)
}

func (n *NotificationService) handleDonationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DonationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if !payload.NewStatus.NotifiesDonor() {
		return nil
	}
	d := payload.Donation

	donor, err := n.lookup(ctx, d.DonorID)
	if err != nil || donor == nil {
		return err
	}

	word, closing := "approved", "We'll be in touch soon to arrange the donation."
	if payload.NewStatus == domain.DonationStatusCompleted {
		word, closing = "completed", "Your donation has helped save lives!"
	}
	return n.enqueue(ctx, event, notify.Message{
		To:      donor.Email,
		Subject: "Your Blood Donation is " + capitalize(word),
		Body: fmt.Sprintf("Thank you for your generosity! Your blood donation (%s, %d units) has been %s. %s",
			d.BloodGroup, d.Units, word, closing),
	})
}

// handlePickupStatusChanged emails the donor on every change and the
// requester once the pickup completes.
func (n *NotificationService) handlePickupStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PickupStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	p := payload.Pickup

	word := "updated"
	switch payload.NewStatus {
	case domain.PickupStatusCompleted:
		word = "completed"
	case domain.PickupStatusCancelled:
		word = "cancelled"
	}

	var errs []error
	donor, err := n.lookup(ctx, p.DonorID)
	if err != nil {
		errs = append(errs, err)
	} else if donor != nil {
		errs = append(errs, n.enqueue(ctx, event, notify.Message{
			To:      donor.Email,
			Subject: "Blood Donation Pickup " + capitalize(word),
			Body: fmt.Sprintf("Dear %s,\n\nYour blood donation pickup has been %s.\n\nDetails:\nDate: %s\nTime: %s\nLocation: %s\n\nThank you for using Life Bridge!",
				donor.Name, word, p.Date, p.Time, p.Location),
		}))
	}

	if payload.NewStatus == domain.PickupStatusCompleted && payload.Request != nil {
		req := payload.Request
		requester, err := n.lookup(ctx, req.RequestedBy)
		if err != nil {
			errs = append(errs, err)
		} else if requester != nil {
			errs = append(errs, n.enqueue(ctx, event, notify.Message{
				To:      requester.Email,
				Subject: "Blood Donation Completed",
				Body: fmt.Sprintf("Dear %s,\n\nGood news! The blood donation for your request has been completed.\n\nDetails:\nBlood Group: %s\nUnits: %d\n\nThank you for using Life Bridge!",
					requester.Name, req.BloodGroup, req.Units),
			}))
		}
	}
	return errors.Join(errs...)
}

// lookup returns nil without error when the user no longer exists.
func (n *NotificationService) lookup(ctx context.Context, id string) (*domain.User, error) {
	u, err := n.users.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		n.logger.Warn("notification recipient missing", zap.String("user_id", id))
		return nil, nil
	}
	return u, err
}

func (n *NotificationService) enqueue(ctx context.Context, event events.Event, msg notify.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return nil
	}
	msg.ID = uuid.NewString()
	msg.Reason = string(event.Type) + ":" + event.EntityID
	msg.EnqueuedAt = n.now().UTC()
	if err := n.queue.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue notification to %s: %w", msg.To, err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
