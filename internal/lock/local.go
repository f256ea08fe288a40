package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker serializes holders of the same key within one process.
// The ttl is ignored; a holder keeps the key until it releases.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker returns an empty locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, _, wait time.Duration) (func(), error) {
	s := l.ref(key)

	select {
	case s.ch <- struct{}{}:
	default:
		if err := l.wait(ctx, s, wait); err != nil {
			l.unref(key)
			return nil, err
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key)
		})
	}, nil
}

// wait blocks until the slot frees, wait elapses or ctx is done. A
// non-positive wait fails at once.
func (l *LocalLocker) wait(ctx context.Context, s *slot, wait time.Duration) error {
	if wait <= 0 {
		return ErrBusy
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LocalLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
