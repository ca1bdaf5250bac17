package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Query composition errors
	ErrUnknownOperation      = fmt.Errorf("unknown operation")
	ErrInvalidPriorityLabel  = fmt.Errorf("invalid priority label")
	ErrInvalidOrderingAction = fmt.Errorf("invalid ordering action")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrUpstreamFailure    = fmt.Errorf("upstream request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSettingsNotFound   = fmt.Errorf("user settings not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// ShortCode is the machine readable code carried by every [ResponseError].
type ShortCode string

const (
	UnknownOperation      ShortCode = "UNKNOWN_OPERATION"
	InvalidPriorityLabel  ShortCode = "INVALID_PRIORITY_LABEL"
	InvalidOrderingAction ShortCode = "INVALID_ORDERING_ACTION"
	InvalidRequest        ShortCode = "INVALID_REQUEST"
	NonExistentUser       ShortCode = "NON_EXISTENT_USER"
	UpstreamFailure       ShortCode = "UPSTREAM_FAILURE"
	SystemException       ShortCode = "SYSTEM_EXCEPTION"
)

// ResponseError is an error with a status class, a short code and a message.
//
// It wraps one of the sentinel errors above so callers can use [errors.Is] without
// caring about the message text.
type ResponseError struct {
	Status  int
	Short   ShortCode
	Message string
	Details map[string]any
	err     error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Short, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.err
}

// WithDetail attaches a key/value pair that is rendered alongside the message.
func (e *ResponseError) WithDetail(key string, value any) *ResponseError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// NewResponseError builds a [ResponseError] wrapping sentinel.
func NewResponseError(status int, short ShortCode, sentinel error, format string, args ...any) *ResponseError {
	return &ResponseError{
		Status:  status,
		Short:   short,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// UnknownOperationError reports a filter name that no registry holds for the given shape.
func UnknownOperationError(name, shape string) *ResponseError {
	return NewResponseError(http.StatusBadRequest, UnknownOperation, ErrUnknownOperation,
		"unknown filter operation '%s' for %s argument", name, shape)
}

// InvalidPriorityError reports a priority label outside High, Medium, Low, None.
func InvalidPriorityError(label string) *ResponseError {
	return NewResponseError(http.StatusBadRequest, InvalidPriorityLabel, ErrInvalidPriorityLabel,
		"invalid priority label '%s'", label)
}

// InvalidOrderingError reports an unknown post-processing action name.
func InvalidOrderingError(name string) *ResponseError {
	return NewResponseError(http.StatusBadRequest, InvalidOrderingAction, ErrInvalidOrderingAction,
		"invalid ordering action '%s'", name)
}

// InvalidRequestError reports a structurally malformed request or directive.
func InvalidRequestError(format string, args ...any) *ResponseError {
	return NewResponseError(http.StatusBadRequest, InvalidRequest, ErrInvalidInput, format, args...)
}

// UpstreamError reports a 4xx/5xx answer from the Todoist API.
//
// The upstream status and body travel in Details; the error itself is always server class.
func UpstreamError(status int, body string) *ResponseError {
	return NewResponseError(http.StatusInternalServerError, UpstreamFailure, ErrUpstreamFailure,
		"upstream returned status %d", status).
		WithDetail("upstreamStatus", status).
		WithDetail("upstreamBody", body)
}

// AsResponseError unwraps err into a [ResponseError].
//
// Errors that are not already a [ResponseError] become a SYSTEM_EXCEPTION with status 500.
func AsResponseError(err error) *ResponseError {
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}
	return NewResponseError(http.StatusInternalServerError, SystemException, err, "%v", err)
}
