package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"data-processor/internal/observability"
	"data-processor/internal/webhooks/signature"
)

// Event is the decoded webhook body. Numeric fields decoded with UseNumber
// arrive as json.Number; unknown fields pass through untouched.
type Event map[string]any

// Outcome is the result of one processing invocation, constructed fresh
// each time.
type Outcome struct {
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	ForwardStatus int    `json:"forward_status,omitempty"`
	ForwardError  string `json:"forward_error,omitempty"`
}

const (
	StatusProcessed = "processed"
	StatusError     = "error"
)

const actionDeleteUser = "delete_user"

var (
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrStorageNotConfigured = errors.New("storage not configured")
	ErrStorageFailure       = errors.New("storage failure")
)

// ValidationError names the event field that failed validation
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return "invalid " + e.Field
}

// UserStore is the slice of the persistence gateway the processor mutates through
type UserStore interface {
	DeleteUserDataByID(ctx context.Context, id int64) (int64, error)
}

// Forwarder posts the original payload downstream
type Forwarder interface {
	Forward(ctx context.Context, body []byte) (int, error)
}

// WebhookProcessor runs the ingestion pipeline: authenticate, validate,
// mutate, forward. It holds no per-invocation state and is safe for
// concurrent use. A nil store or forwarder marks that capability as not
// configured.
type WebhookProcessor struct {
	signingSecret string
	store         UserStore
	forwarder     Forwarder
	logger        *observability.Logger
}

// New creates a new WebhookProcessor
func New(signingSecret string, store UserStore, forwarder Forwarder, logger *observability.Logger) *WebhookProcessor {
	return &WebhookProcessor{
		signingSecret: signingSecret,
		store:         store,
		forwarder:     forwarder,
		logger:        logger,
	}
}

// Process runs one event through the pipeline. rawBody must be the exact
// bytes the sender transmitted; signature verification and forwarding use
// them as-is. The returned error carries the failure kind for callers to
// branch on and is nil whenever the outcome status is "processed" - a
// forwarding failure is recorded on the outcome, not returned, because the
// mutation has already committed by then.
func (p *WebhookProcessor) Process(ctx context.Context, event Event, rawBody []byte, signatureHeader string) (Outcome, error) {
	// Authenticate before touching anything else: no database or network
	// access until the sender is proven.
	if p.signingSecret != "" {
		if !signature.Verify(p.signingSecret, rawBody, signatureHeader) {
			p.logger.Warn(ctx, "rejected webhook with invalid signature")
			return errorOutcome(ErrInvalidSignature), ErrInvalidSignature
		}
	} else {
		// Unsigned mode: explicit policy for deployments without WEBHOOK_SECRET.
		p.logger.Warn(ctx, "no signing secret configured, accepting unsigned webhook")
	}

	// Validate strictly after authentication so unauthenticated callers
	// cannot probe field errors.
	userID, ok := intField(event, "user_id")
	if !ok {
		err := ValidationError{Field: "user_id"}
		p.logger.Warn(ctx, "rejected webhook with invalid user_id")
		return errorOutcome(err), err
	}
	action, ok := event["action"].(string)
	if !ok {
		err := ValidationError{Field: "action"}
		p.logger.Warn(ctx, "rejected webhook with invalid action")
		return errorOutcome(err), err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID},
		observability.Field{Key: "action", Value: action},
	)

	// Mutate. Only delete_user touches storage; every other action passes
	// through to forwarding untouched.
	if action == actionDeleteUser {
		if p.store == nil {
			p.logger.Error(ctx, "delete requested without configured storage", ErrStorageNotConfigured)
			return errorOutcome(ErrStorageNotConfigured), ErrStorageNotConfigured
		}
		if _, err := p.store.DeleteUserDataByID(ctx, userID); err != nil {
			p.logger.Error(ctx, "failed to delete user data", err)
			return errorOutcome(ErrStorageFailure), fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
	}

	// Forward the original bytes. Failures here are recorded on the
	// outcome instead of aborting: the mutation above already committed.
	outcome := Outcome{Status: StatusProcessed}
	if p.forwarder != nil {
		status, err := p.forwarder.Forward(ctx, rawBody)
		if err != nil {
			outcome.ForwardError = err.Error()
		} else {
			outcome.ForwardStatus = status
		}
	}

	return outcome, nil
}

func errorOutcome(err error) Outcome {
	return Outcome{Status: StatusError, Error: err.Error()}
}

// intField extracts an integer field from the event. json.Number values
// must be integral; float64 is accepted for callers that decoded without
// UseNumber, again only when integral. Strings and booleans never qualify.
func intField(e Event, key string) (int64, bool) {
	switch v := e[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return int64(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}
