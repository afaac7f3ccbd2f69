package errors

import (
	"errors"
	"fmt"
)

// ErrNoGeocodeResults is returned when the geocoder found nothing for a query
var ErrNoGeocodeResults = errors.New("no geocoding results")

// NotFoundError represents an error when a location or place is missing
type NotFoundError struct {
	Kind string
	ID   string
}

// Error returns the error message
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError represents an error when validation fails
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// ProviderError represents a non-success response from the maps provider
type ProviderError struct {
	Operation string
	Status    int
	Message   string
}

// Error returns the error message
func (e *ProviderError) Error() string {
	return fmt.Sprintf("maps provider error during %s (status %d): %s", e.Operation, e.Status, e.Message)
}

// StateError represents an error related to the conversation stage
type StateError struct {
	UserID  int64
	State   string
	Message string
}

// Error returns the error message
func (e *StateError) Error() string {
	return fmt.Sprintf("state error for user %d in state %s: %s", e.UserID, e.State, e.Message)
}

// PermissionError represents an error related to permissions
type PermissionError struct {
	UserID   int64
	Required string
}

// Error returns the error message
func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission error for user %d: requires %s access", e.UserID, e.Required)
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Section string
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}

// IsProviderError reports whether err wraps a ProviderError
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}
