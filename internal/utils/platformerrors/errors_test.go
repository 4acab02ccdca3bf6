package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	cases := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeContentPolicy, http.StatusBadRequest},
		{ErrorTypeTokenLimit, http.StatusForbidden},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeUpstreamAuth, http.StatusServiceUnavailable},
		{ErrorTypeUpstream, http.StatusServiceUnavailable},
		{ErrorTypeIntegration, http.StatusInternalServerError},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorType("something-new"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.errorType), func(t *testing.T) {
			if got := ErrorTypeToHTTPStatus(tc.errorType); got != tc.want {
				t.Fatalf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tc.errorType, got, tc.want)
			}
		})
	}
}

func TestAsErrorPreservesKind(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerDomain, ErrorTypeTokenLimit, "token limit exceeded for user", nil, "")

	wrapped := AsError(ctx, LayerHandler, inner, "chat request failed")
	if wrapped.Type != ErrorTypeTokenLimit {
		t.Fatalf("expected wrapped kind TOKEN_LIMIT, got %s", wrapped.Type)
	}
	if !IsErrorType(wrapped, ErrorTypeTokenLimit) {
		t.Fatal("IsErrorType should see through the wrapping")
	}
}

func TestAsErrorDefaultsToInternal(t *testing.T) {
	wrapped := AsError(context.Background(), LayerHandler, errors.New("boom"), "operation failed")
	if wrapped.Type != ErrorTypeInternal {
		t.Fatalf("expected INTERNAL for plain errors, got %s", wrapped.Type)
	}
}

func TestAsErrorNil(t *testing.T) {
	if wrapped := AsError(context.Background(), LayerHandler, nil, "ignored"); wrapped != nil {
		t.Fatalf("expected nil, got %v", wrapped)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(context.Background(), LayerRepository, ErrorTypeDatabaseError, "query failed", cause, "")
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should find the cause through Unwrap")
	}
}
