package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"data-processor/internal/apierrors"
	"data-processor/internal/observability"
	"data-processor/internal/webhooks/processor"

	"github.com/gin-gonic/gin"
)

// signatureHeader carries the HMAC digest of the request body.
const signatureHeader = "X-Hub-Signature-256"

// maxBodyBytes caps inbound webhook payloads at 1 MiB.
const maxBodyBytes = 1 << 20

// Handler handles webhook HTTP requests
type Handler struct {
	processor *processor.WebhookProcessor
	logger    *observability.Logger
}

// New creates a new Handler
func New(processor *processor.WebhookProcessor, logger *observability.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

// statusForError maps processor errors to HTTP status codes. The response
// body is always the processing outcome, only the status code varies.
func statusForError(err error) int {
	var validationErr processor.ValidationError
	switch {
	case errors.Is(err, processor.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleProcessWebhook handles POST /api/webhooks
func (h *Handler) HandleProcessWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Read the raw body before any decoding: signature verification runs
	// over these exact bytes.
	rawBody, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		h.logger.Error(ctx, "failed to read webhook body", err)
		apierrors.BadRequest(c, "INVALID_INPUT", "failed to read request body")
		return
	}

	// Decode with UseNumber so integer identifiers survive without a float
	// round trip.
	var event processor.Event
	dec := json.NewDecoder(bytes.NewReader(rawBody))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		h.logger.Error(ctx, "failed to decode webhook body", err)
		apierrors.BadRequest(c, "INVALID_INPUT", "request body must be a JSON object")
		return
	}

	outcome, err := h.processor.Process(ctx, event, rawBody, c.GetHeader(signatureHeader))
	if err != nil {
		c.JSON(statusForError(err), outcome)
		return
	}

	c.JSON(http.StatusOK, outcome)
}
