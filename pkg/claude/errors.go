package claude

import (
	"errors"
	"fmt"
)

// Sentinel causes for ValidationError. Match with errors.Is.
var (
	// ErrNonPositive is returned when a token budget is zero or negative.
	ErrNonPositive = errors.New("value must be positive")

	// ErrExceedsModelLimit is returned when a token budget exceeds the
	// model's documented output ceiling.
	ErrExceedsModelLimit = errors.New("value exceeds model limit")

	// ErrOutOfRange is returned when a sampling parameter is outside its
	// documented range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownModel is returned when a model identifier is not in the
	// registry.
	ErrUnknownModel = errors.New("unknown model")
)

// ValidationError reports a request parameter rejected at construction
// time, before any network activity.
type ValidationError struct {
	Field string // parameter name, e.g. "max_tokens", "temperature"
	Value any    // offending value
	Err   error  // one of the sentinel causes above
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("claude: invalid %s (%v): %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------
// API errors
// ---------------------------------------------------------------------------

// APIErrorType matches the "type" field of the Anthropic error envelope.
type APIErrorType string

const (
	ErrTypeInvalidRequest APIErrorType = "invalid_request_error"
	ErrTypeAuthentication APIErrorType = "authentication_error"
	ErrTypePermission     APIErrorType = "permission_error"
	ErrTypeNotFound       APIErrorType = "not_found_error"
	ErrTypeRateLimit      APIErrorType = "rate_limit_error"
	ErrTypeAPI            APIErrorType = "api_error"
	ErrTypeOverloaded     APIErrorType = "overloaded_error"
)

// APIError is a non-2xx response decoded from the Anthropic error envelope:
//
//	{"type": "error", "error": {"type": "...", "message": "..."}}
type APIError struct {
	StatusCode int          // HTTP status, 0 when the error arrived mid-stream
	Type       APIErrorType `json:"type"`
	Message    string       `json:"message"`
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("claude: API error %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("claude: API error (%s): %s", e.Type, e.Message)
}
