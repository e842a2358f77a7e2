package acsf

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by the library. Match them with errors.Is.
var (
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidEnvironment = errors.New("invalid environment")
	ErrMissingAction      = errors.New("missing action")
	ErrMissingEntity      = errors.New("missing entity")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrSitegroupRequired = errors.New("sitegroup is required")
	ErrUsernameRequired  = errors.New("username is required")
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrCacheMiss         = errors.New("key not found in cache")
	ErrCacheDisabled     = errors.New("cache disabled")
	ErrNoTaskID          = errors.New("response does not contain a task ID")
)

// InvalidOptionError describes a caller-supplied option that failed validation.
type InvalidOptionError struct {
	Option string
	Value  any
	Detail string
}

// Error implements the error interface.
func (e *InvalidOptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%s: value %q %s", ErrInvalidOption, fmt.Sprint(e.Value), e.Detail)
	}

	return fmt.Sprintf("%s %q: value %q %s", ErrInvalidOption, e.Option, fmt.Sprint(e.Value), e.Detail)
}

// Is reports whether target is ErrInvalidOption.
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// NewInvalidOption builds an InvalidOptionError.
func NewInvalidOption(option string, value any, detail string) *InvalidOptionError {
	return &InvalidOptionError{Option: option, Value: value, Detail: detail}
}

// APIError represents a non-2xx response from the Site Factory API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Body       []byte `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status: %d)", e.StatusCode)
	}

	return fmt.Sprintf("API error (status: %d): %s", e.StatusCode, e.Message)
}

// ParseAPIError builds an APIError from a response status and body. The body
// is expected to carry a "message" field; anything else is kept verbatim.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: body}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}

	return apiErr
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsInvalidOption checks if the error is a validation failure.
func IsInvalidOption(err error) bool {
	return errors.Is(err, ErrInvalidOption)
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}

	return false
}
