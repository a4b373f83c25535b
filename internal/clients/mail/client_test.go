package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"data-processor/internal/observability"

	"github.com/stretchr/testify/assert"
)

func TestSend_NotConfigured(t *testing.T) {
	logger := observability.NewLogger()
	client := New(Config{Host: "smtp.gmail.com", Port: 587, From: "noreply@example.com"}, logger)

	assert.False(t, client.IsEnabled())

	err := client.Send(context.Background(), "user@example.com", "subject", "body")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestIsEnabled(t *testing.T) {
	logger := observability.NewLogger()

	tests := []struct {
		name    string
		cfg     Config
		enabled bool
	}{
		{name: "both credentials", cfg: Config{Username: "user", Password: "pass"}, enabled: true},
		{name: "username only", cfg: Config{Username: "user"}, enabled: false},
		{name: "password only", cfg: Config{Password: "pass"}, enabled: false},
		{name: "neither", cfg: Config{}, enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, New(tt.cfg, logger).IsEnabled())
		})
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "user@example.com", "hello", "line one\nline two"))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\n"))
	assert.Contains(t, msg, "To: user@example.com\r\n")
	assert.Contains(t, msg, "Subject: hello\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	assert.Equal(t, "line one\nline two", msg[headerEnd+4:])
}
