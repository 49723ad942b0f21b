// Package mail delivers the password-reset mail.
package mail

import (
	"context"
	"fmt"
	"time"

	"club-hours/internal/logger"

	"github.com/resend/resend-go/v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		logger.Error("mail.send_failed", "to", msg.To, "subject", msg.Subject, "err", err)
		return fmt.Errorf("resend send: %w", err)
	}
	logger.Info("mail.sent", "message_id", sent.Id, "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogSender only logs. Used when no API key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logger.Info("mail.skipped", "to", msg.To, "subject", msg.Subject, "at", time.Now().Format(time.RFC3339))
	logger.Debug("mail.body", "to", msg.To, "text", msg.Text)
	return nil
}

// NewSender picks Resend when apiKey is set.
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return LogSender{}
	}
	return NewResendSender(apiKey, from)
}
