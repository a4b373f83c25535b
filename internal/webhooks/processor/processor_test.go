package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"data-processor/internal/observability"
	"data-processor/internal/webhooks/signature"

	"go.uber.org/mock/gomock"
)

const testSecret = "test-signing-secret"

// decodeEvent mirrors how the HTTP handler decodes bodies
func decodeEvent(t *testing.T, rawBody []byte) Event {
	t.Helper()
	var event Event
	dec := json.NewDecoder(bytes.NewReader(rawBody))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	return event
}

// Test Process

func TestProcess_SignedDeleteSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)
	header := signature.Sign(testSecret, rawBody)

	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(42)).Return(int64(1), nil)
	mockForwarder.EXPECT().Forward(gomock.Any(), rawBody).Return(200, nil)

	p := New(testSecret, mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, header)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
	if outcome.ForwardStatus != 200 {
		t.Errorf("expected forward status 200, got %d", outcome.ForwardStatus)
	}
	if outcome.ForwardError != "" {
		t.Errorf("expected no forward error, got %q", outcome.ForwardError)
	}
}

func TestProcess_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: nothing may be touched before authentication
	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	p := New(testSecret, mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "sha256=deadbeef")

	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
	if outcome.Status != StatusError {
		t.Errorf("expected status %q, got %q", StatusError, outcome.Status)
	}
	if outcome.Error != "invalid signature" {
		t.Errorf("expected error %q, got %q", "invalid signature", outcome.Error)
	}
}

func TestProcess_MissingSignatureHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "noop"}`)
	event := decodeEvent(t, rawBody)

	p := New(testSecret, mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
	if outcome.Status != StatusError {
		t.Errorf("expected status %q, got %q", StatusError, outcome.Status)
	}
}

func TestProcess_UnsignedModeSkipsVerification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 7, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(7)).Return(int64(1), nil)
	mockForwarder.EXPECT().Forward(gomock.Any(), rawBody).Return(204, nil)

	// No signing secret: even a garbage header must be ignored, because the
	// verifier is never consulted.
	p := New("", mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "sha256=garbage")

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
	if outcome.ForwardStatus != 204 {
		t.Errorf("expected forward status 204, got %d", outcome.ForwardStatus)
	}
}

func TestProcess_StringUserIDFailsValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No delete may be issued for an invalid user_id
	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": "abc", "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	p := New("", mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "user_id" {
		t.Errorf("expected offending field user_id, got %q", validationErr.Field)
	}
	if outcome.Error != "invalid user_id" {
		t.Errorf("expected error %q, got %q", "invalid user_id", outcome.Error)
	}
}

func TestProcess_UserIDValidation(t *testing.T) {
	tests := []struct {
		name    string
		rawBody string
		valid   bool
	}{
		{name: "integer", rawBody: `{"user_id": 42, "action": "noop"}`, valid: true},
		{name: "negative integer", rawBody: `{"user_id": -1, "action": "noop"}`, valid: true},
		{name: "string", rawBody: `{"user_id": "42", "action": "noop"}`, valid: false},
		{name: "fractional", rawBody: `{"user_id": 4.2, "action": "noop"}`, valid: false},
		{name: "boolean", rawBody: `{"user_id": true, "action": "noop"}`, valid: false},
		{name: "null", rawBody: `{"user_id": null, "action": "noop"}`, valid: false},
		{name: "missing", rawBody: `{"action": "noop"}`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := observability.NewLogger()
			rawBody := []byte(tt.rawBody)
			event := decodeEvent(t, rawBody)

			p := New("", nil, nil, logger)
			_, err := p.Process(context.Background(), event, rawBody, "")

			if tt.valid && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if !tt.valid {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if validationErr.Field != "user_id" {
					t.Errorf("expected offending field user_id, got %q", validationErr.Field)
				}
			}
		})
	}
}

func TestProcess_MissingActionFailsValidation(t *testing.T) {
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42}`)
	event := decodeEvent(t, rawBody)

	p := New("", nil, nil, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "action" {
		t.Errorf("expected offending field action, got %q", validationErr.Field)
	}
	if outcome.Error != "invalid action" {
		t.Errorf("expected error %q, got %q", "invalid action", outcome.Error)
	}
}

func TestProcess_DeleteWithoutStorage(t *testing.T) {
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	p := New("", nil, nil, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("expected ErrStorageNotConfigured, got %v", err)
	}
	if outcome.Error != "storage not configured" {
		t.Errorf("expected error %q, got %q", "storage not configured", outcome.Error)
	}
}

func TestProcess_StorageFailureAbortsInvocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	// Forwarder must not be called: the event is not partially processed
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(42)).
		Return(int64(0), errors.New("connection refused"))

	p := New("", mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if !errors.Is(err, ErrStorageFailure) {
		t.Errorf("expected ErrStorageFailure, got %v", err)
	}
	if outcome.Status != StatusError {
		t.Errorf("expected status %q, got %q", StatusError, outcome.Status)
	}
	if outcome.Error != "storage failure" {
		t.Errorf("expected error %q, got %q", "storage failure", outcome.Error)
	}
}

func TestProcess_IdempotentDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	// Zero rows affected is a valid outcome, not an error
	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(42)).Return(int64(0), nil)

	p := New("", mockStore, nil, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
}

func TestProcess_NoopActionStillForwards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Store must not be touched for a noop action
	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "noop"}`)
	event := decodeEvent(t, rawBody)

	mockForwarder.EXPECT().Forward(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, body []byte) (int, error) {
			if string(body) != string(rawBody) {
				t.Errorf("expected original bytes %q, got %q", rawBody, body)
			}
			return 200, nil
		})

	p := New("", mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
	if outcome.ForwardStatus != 200 {
		t.Errorf("expected forward status 200, got %d", outcome.ForwardStatus)
	}
}

func TestProcess_ForwardingFailureDoesNotInvalidateMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	mockForwarder := NewMockForwarder(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(42)).Return(int64(1), nil)
	mockForwarder.EXPECT().Forward(gomock.Any(), rawBody).
		Return(0, errors.New("request failed after 4 attempts: received retryable status 500"))

	p := New("", mockStore, mockForwarder, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	// The forwarding failure is absorbed: the delete committed, so the
	// outcome stays processed with the failure recorded.
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
	if outcome.ForwardError == "" {
		t.Error("expected forward error to be recorded")
	}
	if outcome.ForwardStatus != 0 {
		t.Errorf("expected no forward status, got %d", outcome.ForwardStatus)
	}
}

func TestProcess_NoForwardingEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockUserStore(ctrl)
	logger := observability.NewLogger()

	rawBody := []byte(`{"user_id": 42, "action": "delete_user"}`)
	event := decodeEvent(t, rawBody)

	mockStore.EXPECT().DeleteUserDataByID(gomock.Any(), int64(42)).Return(int64(1), nil)

	p := New("", mockStore, nil, logger)
	outcome, err := p.Process(context.Background(), event, rawBody, "")

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if outcome.Status != StatusProcessed {
		t.Errorf("expected status %q, got %q", StatusProcessed, outcome.Status)
	}
	if outcome.ForwardStatus != 0 || outcome.ForwardError != "" {
		t.Errorf("expected no forwarding detail, got status %d error %q", outcome.ForwardStatus, outcome.ForwardError)
	}
}
