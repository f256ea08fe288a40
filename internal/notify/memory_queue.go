package notify

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull is returned when the in-process buffer has no room.
var ErrQueueFull = errors.New("notification queue full")

// MemoryQueue is a bounded in-process queue.
type MemoryQueue struct {
	ch     chan Message
	mu     sync.Mutex
	dead   []Message
	closed bool
}

// NewMemoryQueue returns a queue buffering up to size messages.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1024
	}
	return &MemoryQueue{ch: make(chan Message, size)}
}

// Enqueue never blocks; a full buffer drops the message with ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue prefers buffered messages over a done ctx so a closed queue still drains.
func (q *MemoryQueue) Dequeue(ctx context.Context) (Message, error) {
	select {
	case msg, ok := <-q.ch:
		if !ok {
			return Message{}, ErrQueueClosed
		}
		return msg, nil
	default:
	}
	select {
	case msg, ok := <-q.ch:
		if !ok {
			return Message{}, ErrQueueClosed
		}
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (q *MemoryQueue) DeadLetter(_ context.Context, msg Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dead = append(q.dead, msg)
	return nil
}

// Dead returns a copy of the dead-lettered messages.
func (q *MemoryQueue) Dead() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Message(nil), q.dead...)
}

// Close stops accepting messages; workers drain what is buffered.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Len reports how many messages are buffered.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
