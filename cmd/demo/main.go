package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"data-processor/internal/bootstrap"
	"data-processor/internal/config"
	"data-processor/internal/observability"
	userProcessor "data-processor/internal/users/processor"
	webhookProcessor "data-processor/internal/webhooks/processor"
	"data-processor/internal/webhooks/signature"
)

// Exercises the full pipeline against live configuration: user lookup,
// external API call, and a signed webhook run end to end.
func main() {
	logger := observability.NewLogger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load configuration", err)
	}

	deps, err := bootstrap.Initialize(ctx, cfg, logger)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize dependencies", err)
	}
	defer deps.Cleanup()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		seedDemoUser(ctx, deps, logger)
	}

	lookupUser(ctx, deps, logger)
	callExternalAPI(ctx, deps, logger)
	runWebhook(ctx, cfg.Webhook.SigningSecret, deps, logger)
}

// seedDemoUser creates a row to give the webhook delete something to act on
func seedDemoUser(ctx context.Context, deps *bootstrap.Dependencies, logger *observability.Logger) {
	user, err := deps.UserProcessor.CreateUser(ctx, userProcessor.CreateUserParams{
		Username: "demo-user",
		Password: "demo-password",
	})
	if err != nil {
		logger.Error(ctx, "failed to seed demo user", err)
		return
	}
	fmt.Printf("seeded user %d (%s)\n", user.ID, user.Username)
}

func lookupUser(ctx context.Context, deps *bootstrap.Dependencies, logger *observability.Logger) {
	user, err := deps.UserProcessor.GetUser(ctx, 1)
	switch {
	case errors.Is(err, userProcessor.ErrUserNotFound):
		fmt.Println("user 1: not found")
	case errors.Is(err, userProcessor.ErrStorageNotConfigured):
		fmt.Println("user 1: storage not configured")
	case err != nil:
		logger.Error(ctx, "failed to fetch user", err)
	default:
		fmt.Printf("user 1: %s (created %s)\n", user.Username, user.CreatedAt.Format("2006-01-02"))
	}
}

func callExternalAPI(ctx context.Context, deps *bootstrap.Dependencies, logger *observability.Logger) {
	result, err := deps.ExternalAPI.Call(ctx, map[string]any{"test": "data"})
	if err != nil {
		logger.InfoWithError(ctx, "external API call failed", err)
		return
	}
	fmt.Printf("external API response: %v\n", result)
}

func runWebhook(ctx context.Context, signingSecret string, deps *bootstrap.Dependencies, logger *observability.Logger) {
	rawBody, err := json.Marshal(map[string]any{"user_id": 1, "action": "noop"})
	if err != nil {
		logger.Fatal(ctx, "failed to marshal webhook payload", err)
	}

	var sigHeader string
	if signingSecret != "" {
		sigHeader = signature.Sign(signingSecret, rawBody)
	}

	var event webhookProcessor.Event
	dec := json.NewDecoder(bytes.NewReader(rawBody))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		logger.Fatal(ctx, "failed to decode webhook payload", err)
	}

	outcome, err := deps.WebhookProcessor.Process(ctx, event, rawBody, sigHeader)
	if err != nil {
		logger.InfoWithError(ctx, "webhook processing failed", err)
	}

	pretty, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		logger.Fatal(ctx, "failed to marshal outcome", err)
	}
	fmt.Printf("webhook outcome:\n%s\n", pretty)
}
