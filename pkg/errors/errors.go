// Package errors provides custom error types for the wikimap system.
// These errors enable programmatic error checking at the boundaries where
// remote wiki failures have to be translated into user-facing notices.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the wikimap system
var (
	// ErrNotFound indicates that a requested page or file was not found
	ErrNotFound = errors.New("not found")

	// ErrMalformed indicates that remote content was not parseable
	ErrMalformed = errors.New("malformed content")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates that a marker document produced zero valid
	// entries after validation
	ErrEmptyDocument = errors.New("empty or invalid marker data")

	// ErrUnauthorized indicates that the caller lacks write capability
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates that the remote store rejected a write as conflicting
	ErrConflict = errors.New("edit conflict")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a wiki resource is not found
// or has no readable revisions.
type NotFoundError struct {
	Resource string
	Name     string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found or has no content", e.Resource, e.Name)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a structured error reported by the wiki API,
// carrying the remote {code, info} pair.
type APIError struct {
	Code     string
	Info     string
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %s: %s", e.Code, e.Info)
	}
	return fmt.Sprintf("API error: %s", e.Info)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. The wiki reports write-capability and
// conflict failures as error codes, so sentinel matching keys off Code.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case "permissiondenied", "protectedpage", "badtoken", "readonly":
		return target == ErrUnauthorized
	case "editconflict":
		return target == ErrConflict
	case "missingtitle":
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(code, info, endpoint string) *APIError {
	return &APIError{Code: code, Info: info, Endpoint: endpoint}
}

// ConfigError represents a map configuration error. Configuration errors are
// fatal for the map instance they belong to.
type ConfigError struct {
	Attribute string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Attribute, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(attribute, message string, err error) *ConfigError {
	return &ConfigError{Attribute: attribute, Message: message, Err: err}
}

// ParseError represents an error when parsing remote data
type ParseError struct {
	Format  string // "json", "yaml"
	Source  string // page or file the data came from
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s content of %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Message: message, Err: err}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Err       error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Unwrap implements errors.Unwrap
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration string, err error) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Err: err}
}

// NetworkError represents a transport-level failure talking to the wiki
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s of %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed checks if an error indicates unparseable remote content
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsEmptyDocument checks if an error is the empty-after-validation failure
func IsEmptyDocument(err error) bool {
	return errors.Is(err, ErrEmptyDocument)
}

// IsUnauthorized checks if an error is a write-capability failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConflict checks if an error is an edit conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapNetwork wraps an error as a NetworkError
func WrapNetwork(operation, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewNetworkError(operation, endpoint, err)
}
