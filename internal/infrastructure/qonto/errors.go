package qonto

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeAuth       = "AUTH_ERROR"
	CodePermission = "PERMISSION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeRateLimit  = "RATE_LIMIT"
	CodeServer     = "SERVER_ERROR"
	CodeTimeout    = "TIMEOUT"
	CodeNetwork    = "NETWORK_ERROR"
	CodeUnknown    = "UNKNOWN_ERROR"
)

// Error is returned for every failed Qonto call
type Error struct {
	Code    string
	Status  int
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("qonto: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("qonto: %s: %s", e.Code, e.Message)
}

// Retryable reports whether the call may succeed when repeated
func (e *Error) Retryable() bool {
	switch e.Code {
	case CodeTimeout, CodeNetwork, CodeServer, CodeRateLimit:
		return true
	}
	return false
}

// AsError extracts a *Error from err
func AsError(err error) (*Error, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

// IsNotFound reports whether err is a Qonto 404
func IsNotFound(err error) bool {
	qe, ok := AsError(err)
	return ok && qe.Code == CodeNotFound
}

// errorFromResponse maps an HTTP status and decoded body to an Error
func errorFromResponse(status int, body map[string]any) *Error {
	message := fmt.Sprintf("Qonto API error (%d)", status)
	if m, ok := body["message"].(string); ok && m != "" {
		message = m
	} else if m, ok := body["error"].(string); ok && m != "" {
		message = m
	}

	e := &Error{Status: status, Message: message, Details: body}
	switch status {
	case http.StatusBadRequest:
		e.Code = CodeValidation
	case http.StatusUnauthorized:
		e.Code, e.Message = CodeAuth, "Invalid Qonto credentials"
	case http.StatusForbidden:
		e.Code, e.Message = CodePermission, "Insufficient Qonto permissions"
	case http.StatusNotFound:
		e.Code, e.Message = CodeNotFound, "Resource not found"
	case http.StatusTooManyRequests:
		e.Code, e.Message = CodeRateLimit, "Qonto rate limit exceeded"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		e.Code, e.Message = CodeServer, "Qonto server error"
	default:
		e.Code = CodeUnknown
	}
	return e
}
