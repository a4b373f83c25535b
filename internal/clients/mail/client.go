package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"data-processor/internal/observability"
)

var ErrNotConfigured = errors.New("mail is not configured")

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Client sends notification email over SMTP
type Client struct {
	cfg    Config
	logger *observability.Logger
}

// New creates a new mail client
func New(cfg Config, logger *observability.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// IsEnabled returns true if SMTP credentials are configured
func (c *Client) IsEnabled() bool {
	return c.cfg.Username != "" && c.cfg.Password != ""
}

// buildMessage assembles the raw message bytes
func buildMessage(from, to, subject, body string) []byte {
	return []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", from, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)
}

// Send delivers a plain text email to a single recipient. Without
// credentials it fails before any dial.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if !c.IsEnabled() {
		return ErrNotConfigured
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: to},
		observability.Field{Key: "email_subject", Value: subject},
	)

	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	msg := buildMessage(c.cfg.From, to, subject, body)

	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{to}, msg); err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return nil
}
