package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventDonationCreated, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	d.Publish(context.Background(), New(EventRequestCreated, "r1", "u1", nil))

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishAllReturnsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	calls := 0
	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls++
		return errors.New("queue down")
	})
	d.Subscribe(EventRequestCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.PublishAll(context.Background(), New(EventRequestCreated, "r1", "u1", nil))
	assert.EqualError(t, err, "queue down")
	assert.Equal(t, 2, calls)

	assert.NoError(t, d.PublishAll(context.Background(), New(EventDonationCreated, "d1", "u1", nil)))
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventPickupStatusChanged, "p1", "admin", nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "p1", e.EntityID)
}
