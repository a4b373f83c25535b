package bootstrap

import (
	"context"

	"data-processor/internal/config"
	"data-processor/internal/observability"
	"data-processor/internal/store"

	"data-processor/internal/clients/extapi"
	"data-processor/internal/clients/httpclient"
	"data-processor/internal/clients/mail"
	"data-processor/internal/clients/objectstore"
	userHandler "data-processor/internal/users/handler"
	userProcessor "data-processor/internal/users/processor"
	"data-processor/internal/webhooks/forwarder"
	webhookHandler "data-processor/internal/webhooks/handler"
	webhookProcessor "data-processor/internal/webhooks/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  *store.Store
	Logger *observability.Logger

	// Clients
	HTTPClient  *httpclient.Client
	ExternalAPI *extapi.Client
	ObjectStore *objectstore.Client
	Mail        *mail.Client

	// Processors
	WebhookProcessor *webhookProcessor.WebhookProcessor
	UserProcessor    *userProcessor.UserProcessor

	// Handlers
	WebhookHandler *webhookHandler.Handler
	UserHandler    *userHandler.Handler
}

// Initialize sets up all application dependencies. Optional features are
// disabled, not fatal, when their configuration is absent.
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store. A missing URL disables storage; a store
	// that cannot be constructed is logged and left disabled rather than
	// taking the service down.
	if cfg.Database.Configured() {
		st, err := store.New(cfg.Database.URL, logger)
		if err != nil {
			logger.Error(ctx, "failed to initialize database store, storage features disabled", err)
		} else {
			deps.Store = st
			if err := st.Ping(ctx); err != nil {
				logger.Warn(ctx, "database unreachable at startup, operations will retry on use")
			} else if err := st.EnsureSchema(ctx); err != nil {
				logger.Error(ctx, "failed to ensure database schema", err)
			}
		}
	} else {
		logger.Info(ctx, "no database configured, storage features disabled")
	}

	// Initialize shared HTTP client
	deps.HTTPClient = httpclient.New(httpclient.Config{
		Timeout:       cfg.HTTPClient.Timeout,
		MaxRetries:    cfg.HTTPClient.MaxRetries,
		BackoffFactor: cfg.HTTPClient.BackoffFactor,
	}, logger)

	// Initialize peer clients
	deps.ExternalAPI = extapi.New(cfg.ExternalAPI.BaseURL, cfg.ExternalAPI.APIKey, deps.HTTPClient, logger)

	deps.ObjectStore = objectstore.New(objectstore.Config{
		Region:          cfg.ObjectStorage.Region,
		Bucket:          cfg.ObjectStorage.Bucket,
		AccessKeyID:     cfg.ObjectStorage.AccessKeyID,
		SecretAccessKey: cfg.ObjectStorage.SecretAccessKey,
	}, logger)
	if !deps.ObjectStore.IsEnabled() {
		logger.Info(ctx, "no storage bucket configured, object uploads disabled")
	}

	deps.Mail = mail.New(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)
	if !deps.Mail.IsEnabled() {
		logger.Info(ctx, "no SMTP credentials configured, email notifications disabled")
	}

	// Initialize webhook processor. A nil store or forwarder disables the
	// corresponding pipeline step; interface fields are only assigned from
	// non-nil concrete values.
	var userStore webhookProcessor.UserStore
	if deps.Store != nil {
		userStore = deps.Store
	}

	var fwd webhookProcessor.Forwarder
	if cfg.Webhook.ForwardEndpoint != "" {
		fwd = forwarder.New(cfg.Webhook.ForwardEndpoint, deps.HTTPClient, logger)
	} else {
		logger.Info(ctx, "no forwarding endpoint configured, forwarding disabled")
	}

	if cfg.Webhook.SigningSecret == "" {
		logger.Warn(ctx, "no webhook signing secret configured, signature verification disabled")
	}

	deps.WebhookProcessor = webhookProcessor.New(cfg.Webhook.SigningSecret, userStore, fwd, logger)
	deps.WebhookHandler = webhookHandler.New(deps.WebhookProcessor, logger)

	// Initialize users processor and handler
	var usersStore userProcessor.UserStore
	if deps.Store != nil {
		usersStore = deps.Store
	}
	deps.UserProcessor = userProcessor.New(usersStore, logger)
	deps.UserHandler = userHandler.New(deps.UserProcessor, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.Store != nil {
		d.Store.Close()
	}
}
