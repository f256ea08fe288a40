package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/notify"
	"github.com/spec-kit/life-bridge/internal/observability"
	"github.com/spec-kit/life-bridge/internal/service"
)

// NotificationPool drains the notification queue with a fixed set of workers.
// Each message gets up to MaxAttempts sends with doubling backoff and a
// per-send timeout; exhausted messages are dead-lettered. A send whose outcome
// is unknown is dead-lettered without a retry so the recipient is not emailed twice.
type NotificationPool struct {
	queue       notify.Queue
	sender      notify.Sender
	logger      *zap.Logger
	metrics     *observability.Metrics
	workers     int
	maxAttempts int
	backoff     time.Duration
	sendTimeout time.Duration

	wg          sync.WaitGroup
	stopDequeue context.CancelFunc
	stopDeliver context.CancelFunc
	dequeueCtx  context.Context
	deliverCtx  context.Context
}

// NewNotificationPool builds a pool from notification config.
func NewNotificationPool(cfg config.NotificationConfig, queue notify.Queue, sender notify.Sender, logger *zap.Logger, metrics *observability.Metrics) *NotificationPool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &NotificationPool{
		queue:       queue,
		sender:      sender,
		logger:      logger,
		metrics:     metrics,
		workers:     workers,
		maxAttempts: attempts,
		backoff:     cfg.RetryBackoff(),
		sendTimeout: cfg.SendTimeout(),
	}
}

// StartNotificationWorker subscribes the notification policy to domain
// events and starts delivering what it enqueues.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, pool *NotificationPool) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if pool != nil {
		pool.Start(ctx)
	}
}

// Start launches the workers.
func (p *NotificationPool) Start(parent context.Context) {
	p.dequeueCtx, p.stopDequeue = context.WithCancel(parent)
	p.deliverCtx, p.stopDeliver = context.WithCancel(context.WithoutCancel(parent))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.logger.Info("notification workers started", zap.Int("workers", p.workers))
}

// Shutdown stops taking new messages and waits for in-flight deliveries.
// When ctx expires first, in-flight sends are cancelled.
func (p *NotificationPool) Shutdown(ctx context.Context) error {
	if p.stopDequeue == nil {
		return nil
	}
	p.stopDequeue()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.stopDeliver()
		return nil
	case <-ctx.Done():
		p.stopDeliver()
		<-done
		return ctx.Err()
	}
}

func (p *NotificationPool) run(id int) {
	defer p.wg.Done()
	logger := p.logger.With(zap.Int("worker", id))

	for {
		msg, err := p.queue.Dequeue(p.dequeueCtx)
		if err != nil {
			if errors.Is(err, notify.ErrQueueClosed) || p.dequeueCtx.Err() != nil {
				return
			}
			logger.Warn("dequeue notification failed", zap.Error(err))
			if sleep(p.dequeueCtx, p.backoff) != nil {
				return
			}
			continue
		}
		p.deliver(logger, msg)
	}
}

func (p *NotificationPool) deliver(logger *zap.Logger, msg notify.Message) {
	logger = logger.With(zap.String("notification_id", msg.ID), zap.String("to", msg.To), zap.String("reason", msg.Reason))

	if err := msg.Validate(); err != nil {
		msg.LastError = err.Error()
		p.deadLetter(logger, msg)
		return
	}

	delay := p.backoff
	for msg.Attempts < p.maxAttempts {
		msg.Attempts++

		sendCtx, cancel := context.WithTimeout(p.deliverCtx, p.sendTimeout)
		err := p.sender.Send(sendCtx, msg)
		cancel()
		if err == nil {
			p.metrics.RecordNotification(observability.NotificationSent)
			logger.Debug("notification sent", zap.Int("attempt", msg.Attempts))
			return
		}

		msg.LastError = err.Error()
		logger.Warn("notification send failed", zap.Int("attempt", msg.Attempts), zap.Error(err))
		if errors.Is(err, notify.ErrOutcomeUnknown) || msg.Attempts >= p.maxAttempts {
			break
		}
		p.metrics.RecordNotification(observability.NotificationRetried)
		if sleep(p.deliverCtx, delay) != nil {
			break
		}
		delay *= 2
	}
	p.deadLetter(logger, msg)
}

func (p *NotificationPool) deadLetter(logger *zap.Logger, msg notify.Message) {
	p.metrics.RecordNotification(observability.NotificationDead)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.queue.DeadLetter(ctx, msg); err != nil {
		logger.Error("dead-letter notification failed", zap.Error(err))
		return
	}
	logger.Error("notification dead-lettered", zap.Int("attempts", msg.Attempts), zap.String("last_error", msg.LastError))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
