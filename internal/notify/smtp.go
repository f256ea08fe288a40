package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/life-bridge/internal/config"
)

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

// NewSMTPSender builds a sender from notification config.
func NewSMTPSender(cfg config.NotificationConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
		name:   cfg.SenderName,
	}
}

// Send dials the relay and delivers msg. gomail has no context support: when
// ctx ends first, Send returns ErrOutcomeUnknown while DialAndSend keeps
// running in the background and may still deliver.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", s.from, s.name)
	mailer.SetHeader("To", msg.To)
	mailer.SetHeader("Subject", msg.Subject)
	mailer.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(mailer)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w: %w", msg.To, ErrOutcomeUnknown, ctx.Err())
	}
}

// LogSender stands in for SMTP when no relay is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a sender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.Info("email (smtp not configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("reason", msg.Reason))
	return nil
}

// NewSender picks SMTP when a host is configured.
func NewSender(cfg config.NotificationConfig, logger *zap.Logger) Sender {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not provided; notifications will be logged only")
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}
