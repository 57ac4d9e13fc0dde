package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidStatusTransition, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeProviderValidation, http.StatusUnprocessableEntity},
		{ErrCodeProviderNotFound, http.StatusNotFound},
		{ErrCodeProviderUnavailable, http.StatusBadGateway},
		// Domain codes
		{"SUCCURSALE_TERMS_READ_ONLY", http.StatusUnprocessableEntity},
		{"CREDIT_NOTE_FINALIZED", http.StatusConflict},
		{"NO_ITEMS", http.StatusUnprocessableEntity},
		{"INVALID_RETROCESSION_RATE", http.StatusBadRequest},
		{"DOCUMENT_NOT_AVAILABLE", http.StatusNotFound},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"INVALID_STATUS_TRANSITION", ErrCodeInvalidStatusTransition},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		// Already normalized
		{ErrCodeNotFound, ErrCodeNotFound},
		// Domain specific codes pass through
		{"DUPLICATE_PRODUCT", "DUPLICATE_PRODUCT"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestProviderErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeProviderValidation, ProviderErrorCode("VALIDATION_ERROR"))
	assert.Equal(t, ErrCodeProviderNotFound, ProviderErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeProviderRateLimited, ProviderErrorCode("RATE_LIMIT"))
	assert.Equal(t, ErrCodeProviderUnavailable, ProviderErrorCode("TIMEOUT"))
	assert.Equal(t, ErrCodeProviderUnavailable, ProviderErrorCode("AUTH_ERROR"))
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code) // Should be normalized
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "customer_id", Message: "customer_id is required"},
		{Field: "items", Message: "items must contain at least 1 item"},
	}
	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "customer_id", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated", "req-001", "https://docs.example.com/auth")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, ErrCodeUnauthorized, decoded.Error.Code)
	assert.Equal(t, "req-001", decoded.Error.RequestID)
	assert.Equal(t, "https://docs.example.com/auth", decoded.Error.Help)
	assert.False(t, decoded.Error.Timestamp.Before(before.Truncate(time.Second)))
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		// Zero or negative page size falls back to the default
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
