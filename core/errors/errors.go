// Package errors provides the typed errors returned by catalog construction,
// configuration, translation defaults and local corpus loading.
//
// Recognition outcomes (no citation, unknown book, missing content) are never
// errors; they are reported as empty or absent results by the packages that
// produce them.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized indicates insufficient permissions
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
	// ErrUnavailable indicates a translation cannot serve a Bible section
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "translation", "book", "corpus")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// PermissionError is returned when a user may not change a channel's defaults.
type PermissionError struct {
	Operation string // Operation that was attempted (e.g., "set defaults")
	Resource  string // Resource being changed (e.g., a channel name)
	Reason    string // Why permission was denied
}

func (e *PermissionError) Error() string {
	if e.Operation != "" && e.Resource != "" {
		return fmt.Sprintf("permission denied: cannot %s for %s: %s", e.Operation, e.Resource, e.Reason)
	}
	return fmt.Sprintf("permission denied: %s", e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrUnauthorized
}

// UnavailableError reports a translation that is unknown, retired, or does
// not contain the requested section of the Bible.
type UnavailableError struct {
	Translation string // Canonical translation code
	Section     string // Section name (e.g., "Old Testament")
}

func (e *UnavailableError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("translation %s is not available for the %s", e.Translation, e.Section)
	}
	return fmt.Sprintf("translation %s is not available", e.Translation)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
	Path      string // File path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "YAML", "OSIS")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewPermission creates a PermissionError
func NewPermission(operation, resource, reason string) *PermissionError {
	return &PermissionError{Operation: operation, Resource: resource, Reason: reason}
}

// NewUnavailable creates an UnavailableError
func NewUnavailable(translation, section string) *UnavailableError {
	return &UnavailableError{Translation: translation, Section: section}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Join wraps errors.Join so callers need not import both packages.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
