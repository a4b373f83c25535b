// Package forwarder delivers processed webhook bodies to the configured
// downstream endpoint. The original received bytes are posted as-is.
package forwarder

import (
	"context"
	"fmt"
	"time"

	"data-processor/internal/clients/httpclient"
	"data-processor/internal/observability"
)

// Forwarder posts webhook payloads downstream through the shared transport
type Forwarder struct {
	endpoint   string
	httpClient *httpclient.Client
	logger     *observability.Logger
}

// New creates a Forwarder for the given endpoint
func New(endpoint string, httpClient *httpclient.Client, logger *observability.Logger) *Forwarder {
	return &Forwarder{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Forward posts body to the endpoint and returns the downstream status.
// The transport retries transient failures; a transport error or retry
// exhaustion is returned as an error, any obtained response status is not.
func (f *Forwarder) Forward(ctx context.Context, body []byte) (int, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "endpoint", Value: f.endpoint})

	start := time.Now()
	resp, err := f.httpClient.PostJSON(ctx, f.endpoint, body, nil)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		f.logger.Error(observability.WithFields(ctx,
			observability.Field{Key: "duration_ms", Value: durationMs},
		), "failed to forward webhook payload", err)
		return 0, fmt.Errorf("failed to forward webhook payload: %w", err)
	}

	f.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "status", Value: resp.StatusCode},
		observability.Field{Key: "duration_ms", Value: durationMs},
	), "forwarded webhook payload")

	return resp.StatusCode, nil
}
