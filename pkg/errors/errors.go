// Package errors provides custom error types for the larkdocs system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the component, loader and signing code.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As mirror the standard library so callers need only one import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the larkdocs system
var (
	// ErrEnvironment indicates that a required host capability (DOM, crypto) is missing
	ErrEnvironment = errors.New("environment unsupported")

	// ErrLoad indicates that the external SDK script failed to load
	ErrLoad = errors.New("sdk load failed")

	// ErrSDKUnavailable indicates the loader finished but the SDK entry point is absent
	ErrSDKUnavailable = errors.New("sdk unavailable")

	// ErrNotStarted indicates a forwarding call was issued before a successful start
	ErrNotStarted = errors.New("component not started")

	// ErrCryptoUnavailable indicates that no digest primitive is available
	ErrCryptoUnavailable = errors.New("crypto unavailable")

	// ErrWrongEventKind indicates an invoke on a notification or a register on a capability
	ErrWrongEventKind = errors.New("wrong event kind")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that credentials are required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrAPIKeyInvalid indicates that the provided credentials are invalid
	ErrAPIKeyInvalid = errors.New("API key invalid")

	// ErrProviderUnavailable indicates that the remote platform is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// EnvironmentError reports a host capability the operation needs but cannot find.
type EnvironmentError struct {
	Capability string // "document", "crypto"
	Message    string
}

// Error implements the error interface
func (e *EnvironmentError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("environment lacks %s: %s", e.Capability, e.Message)
	}
	return fmt.Sprintf("environment lacks %s", e.Capability)
}

// Is implements errors.Is support
func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironment
}

// NewEnvironmentError creates a new EnvironmentError
func NewEnvironmentError(capability, message string) *EnvironmentError {
	return &EnvironmentError{Capability: capability, Message: message}
}

// LoadError represents a failure to fetch the SDK script or to find its entry point after it ran.
type LoadError struct {
	URL     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %s", e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// NewLoadError creates a new LoadError
func NewLoadError(url, message string, err error) *LoadError {
	return &LoadError{URL: url, Message: message, Err: err}
}

// SDKUnavailableError is returned when loading reported success but the entry point is missing.
type SDKUnavailableError struct {
	Entry string
}

// Error implements the error interface
func (e *SDKUnavailableError) Error() string {
	return fmt.Sprintf("sdk entry point %s unavailable after load", e.Entry)
}

// Is implements errors.Is support
func (e *SDKUnavailableError) Is(target error) bool {
	return target == ErrSDKUnavailable
}

// NotStartedError is returned by every forwarding call made while the component is not started.
type NotStartedError struct {
	Operation string
}

// Error implements the error interface
func (e *NotStartedError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: component not started, call Start first", e.Operation)
	}
	return "component not started, call Start first"
}

// Is implements errors.Is support
func (e *NotStartedError) Is(target error) bool {
	return target == ErrNotStarted
}

// NewNotStartedError creates a new NotStartedError
func NewNotStartedError(operation string) *NotStartedError {
	return &NotStartedError{Operation: operation}
}

// CryptoUnavailableError reports a digest algorithm that is not linked into the binary.
type CryptoUnavailableError struct {
	Algorithm string
}

// Error implements the error interface
func (e *CryptoUnavailableError) Error() string {
	return fmt.Sprintf("digest %s is not available in this environment", e.Algorithm)
}

// Is implements errors.Is support
func (e *CryptoUnavailableError) Is(target error) bool {
	return target == ErrCryptoUnavailable || target == ErrEnvironment
}

// EventKindError reports an event used through the wrong half of the dispatch layer.
type EventKindError struct {
	Event     string
	Operation string // "invoke", "register", "unregister"
	Kind      string // the kind the event is catalogued as
}

// Error implements the error interface
func (e *EventKindError) Error() string {
	return fmt.Sprintf("cannot %s %s: catalogued as %s", e.Operation, e.Event, e.Kind)
}

// Is implements errors.Is support
func (e *EventKindError) Is(target error) bool {
	return target == ErrWrongEventKind
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
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
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the Lark open platform
type APIError struct {
	Provider   string
	StatusCode int
	Code       int // platform business code, 0 on success
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error from %s (code %d): %s", e.Provider, e.Code, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "fetch", "start", "sign"
	Resource  string // "instance", "ticket", "token", "signature"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// AuthenticationError represents an authentication/authorization error
type AuthenticationError struct {
	Provider string
	Method   string // "app_secret", "api_key", "tenant_token"
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Provider, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAPIKeyRequired || target == ErrAPIKeyInvalid
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(provider, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Provider: provider,
		Method:   method,
		Message:  message,
		Err:      err,
	}
}

// Helper functions for error checking

// IsEnvironment checks if an error reports a missing host capability
func IsEnvironment(err error) bool {
	return errors.Is(err, ErrEnvironment)
}

// IsLoad checks if an error is an SDK load failure
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}

// IsSDKUnavailable checks if an error reports a missing SDK entry point
func IsSDKUnavailable(err error) bool {
	return errors.Is(err, ErrSDKUnavailable)
}

// IsNotStarted checks if an error is a not started error
func IsNotStarted(err error) bool {
	return errors.Is(err, ErrNotStarted)
}

// IsCryptoUnavailable checks if an error reports a missing digest primitive
func IsCryptoUnavailable(err error) bool {
	return errors.Is(err, ErrCryptoUnavailable)
}

// IsWrongEventKind checks if an error is an event kind mismatch
func IsWrongEventKind(err error) bool {
	return errors.Is(err, ErrWrongEventKind)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError checks if an error is related to credentials
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsProviderUnavailable checks if an error indicates platform unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
