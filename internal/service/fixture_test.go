package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/domain"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/lock"
	"github.com/spec-kit/life-bridge/internal/notify"
	"github.com/spec-kit/life-bridge/internal/repository/memory"
)

type recordingQueue struct {
	mu   sync.Mutex
	msgs []notify.Message
	fail bool
}

func (q *recordingQueue) Enqueue(_ context.Context, msg notify.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail {
		return errors.New("queue unavailable")
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *recordingQueue) Dequeue(ctx context.Context) (notify.Message, error) {
	<-ctx.Done()
	return notify.Message{}, ctx.Err()
}

func (q *recordingQueue) DeadLetter(context.Context, notify.Message) error { return nil }

func (q *recordingQueue) Messages() []notify.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.Message(nil), q.msgs...)
}

func (q *recordingQueue) To() []string {
	var out []string
	for _, m := range q.Messages() {
		out = append(out, m.To)
	}
	return out
}

func (q *recordingQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = nil
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	queue     *recordingQueue
	requests  *RequestService
	donations *DonationService
	pickups   *PickupService
	admin     *AdminService
	auth      *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	queue := &recordingQueue{}
	NewNotificationService(dispatcher, queue, store.Users(), zap.NewNop()).RegisterHandlers()

	return &fixture{
		ctx:      context.Background(),
		store:    store,
		queue:    queue,
		requests: NewRequestService(store.BloodRequests(), store.Users(), dispatcher),
		donations: NewDonationService(DonationDependencies{
			DonationRepo: store.Donations(),
			UserRepo:     store.Users(),
			RequestRepo:  store.BloodRequests(),
			Dispatcher:   dispatcher,
		}),
		pickups: NewPickupService(PickupDependencies{
			PickupRepo:   store.Pickups(),
			RequestRepo:  store.BloodRequests(),
			DonationRepo: store.Donations(),
			UserRepo:     store.Users(),
			Locker:       lock.NewLocalLocker(),
			LockTTL:      time.Second,
			LockWait:     time.Second,
			Dispatcher:   dispatcher,
		}),
		admin: NewAdminService(AdminDependencies{
			UserRepo:     store.Users(),
			RequestRepo:  store.BloodRequests(),
			DonationRepo: store.Donations(),
			PickupRepo:   store.Pickups(),
		}),
		auth: NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, store.Users()),
	}
}

func (f *fixture) user(t *testing.T, name string, role domain.Role, group domain.BloodGroup) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:       name,
		Email:      strings.ToLower(name) + "@lifebridge.test",
		Role:       role,
		BloodGroup: group,
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) request(t *testing.T, requester *domain.User, group string, units string) *RequestView {
	t.Helper()
	view, err := f.requests.CreateRequest(f.ctx, requester.ID, RequestInput{BloodGroup: group, Units: units, Location: "12 Main St"})
	require.NoError(t, err)
	return view
}
