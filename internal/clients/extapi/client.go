package extapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"data-processor/internal/clients/httpclient"
	"data-processor/internal/observability"
)

// Client calls the downstream processing API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *httpclient.Client
	logger     *observability.Logger
}

// New creates a new external API client
func New(baseURL, apiKey string, httpClient *httpclient.Client, logger *observability.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Call POSTs the payload to the processing endpoint and returns the decoded
// JSON response.
func (c *Client) Call(ctx context.Context, payload map[string]any) (map[string]any, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "external_api_url", Value: c.baseURL})

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error(ctx, "failed to marshal external API payload", err)
		return nil, fmt.Errorf("failed to prepare external API request: %w", err)
	}

	headers := http.Header{}
	if c.apiKey != "" {
		headers.Set("Authorization", "Bearer "+c.apiKey)
	} else {
		c.logger.Warn(ctx, "no API key configured, calling external API unauthenticated")
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/process", body, headers)
	if err != nil {
		c.logger.Error(ctx, "failed to call external API", err)
		return nil, fmt.Errorf("external API request failed: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// The error carries the status only, never the response body
		return nil, fmt.Errorf("external API returned status %d", resp.StatusCode)
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		c.logger.Error(ctx, "failed to parse external API response", err)
		return nil, fmt.Errorf("failed to parse external API response: %w", err)
	}
	return result, nil
}
