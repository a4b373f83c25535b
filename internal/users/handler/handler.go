package handler

import (
	"errors"
	"net/http"
	"strconv"

	"data-processor/internal/apierrors"
	"data-processor/internal/observability"
	"data-processor/internal/users/processor"

	"github.com/gin-gonic/gin"
)

// Handler handles user HTTP requests
type Handler struct {
	processor *processor.UserProcessor
	logger    *observability.Logger
}

// New creates a new Handler
func New(processor *processor.UserProcessor, logger *observability.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

// handleError maps processor errors to API error responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrUserNotFound):
		apierrors.NotFound(c, "user not found")
	case errors.Is(err, processor.ErrStorageNotConfigured):
		apierrors.ServiceUnavailable(c, "STORAGE_NOT_CONFIGURED", "storage not configured", err)
	default:
		apierrors.InternalError(c, err)
	}
}

// HandleGetUser handles GET /api/users/:id
func (h *Handler) HandleGetUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error(ctx, "failed to parse user id", err)
		apierrors.BadRequest(c, "INVALID_INPUT", "user id must be an integer")
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: id})

	user, err := h.processor.GetUser(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
