package lock

import (
	"context"
	"errors"
	"time"
)

// ErrBusy is returned when a lock could not be acquired before the wait expired.
var ErrBusy = errors.New("lock busy")

// Locker grants exclusive access to a named key.
type Locker interface {
	// Acquire blocks until key is held, wait elapses, or ctx is done. The
	// returned release func is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl, wait time.Duration) (release func(), err error)
}

const retryInterval = 50 * time.Millisecond
