package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// ErrNotLoggedIn indicates a tool that needs a session user was called
// without one.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		return &APIError{Code: "NOT_LOGGED_IN", Message: "no active session", RecoveryHint: "Call login first"}
	case errors.Is(err, tracking.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check dates (YYYY-MM-DD), non-negative numbers and work type"}
	case errors.Is(err, tracking.ErrNoAttachment):
		return &APIError{Code: "NO_ATTACHMENT", Message: "material has no receipt"}
	case errors.Is(err, tracking.ErrInvalidAttachment):
		return &APIError{Code: "INVALID_ATTACHMENT", Message: err.Error()}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
