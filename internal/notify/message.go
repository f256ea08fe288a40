package notify

import (
	"context"
	"errors"
	"time"
)

// ErrQueueClosed is returned by Dequeue once a queue has been closed and drained.
var ErrQueueClosed = errors.New("notification queue closed")

// ErrOutcomeUnknown marks a send that was abandoned while the transport was
// still running, so the message may or may not have been delivered.
var ErrOutcomeUnknown = errors.New("notification outcome unknown")

// Message is a single plain-text email to one recipient.
type Message struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Reason     string    `json:"reason"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// Sender delivers a message once. A send that gives up before the transport
// finishes returns an error wrapping ErrOutcomeUnknown.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Queue buffers messages between the request path and the delivery workers.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue blocks until a message is available, ctx is done, or the queue is closed.
	Dequeue(ctx context.Context) (Message, error)
	// DeadLetter records a message whose delivery attempts are exhausted.
	DeadLetter(ctx context.Context, msg Message) error
}

// Validate rejects messages missing an address, subject, or body.
func (m Message) Validate() error {
	if m.To == "" || m.Subject == "" || m.Body == "" {
		return errors.New("missing required email parameters")
	}
	return nil
}
