// Package email sends transactional mail through Resend, with a console
// fallback for development setups without an API key.
package email

import (
	"context"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

// NewResendMailer creates a mailer with the given API key and sender.
func NewResendMailer(apiKey, from string, logger *slog.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return err
	}
	m.logger.Info("mail sent", "to", msg.To, "subject", msg.Subject, "id", sent.Id)
	return nil
}

// ConsoleMailer logs messages instead of delivering them.
type ConsoleMailer struct {
	logger *slog.Logger
}

// NewConsoleMailer creates the development fallback mailer.
func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("mail (console delivery)",
		"to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}

// NewMailer picks Resend when an API key is configured and the console
// fallback otherwise.
func NewMailer(apiKey, from string, logger *slog.Logger) Mailer {
	if apiKey == "" {
		logger.Warn("RESEND_API_KEY not set, mail goes to the log")
		return NewConsoleMailer(logger)
	}
	return NewResendMailer(apiKey, from, logger)
}
