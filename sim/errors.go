package sim

import (
	"errors"
	"fmt"
)

// ConfigError is a configuration problem found while building or validating
// a model. It is always fatal for the run.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Object names the offending input object, when there is one.
	Object string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	ErrCodeInvalidSpace      ConfigErrorCode = "INVALID_SPACE"
	ErrCodeInvalidZone       ConfigErrorCode = "INVALID_ZONE"
	ErrCodeInvalidCurve      ConfigErrorCode = "INVALID_CURVE"
	ErrCodeInvalidSchedule   ConfigErrorCode = "INVALID_SCHEDULE"
	ErrCodeInvalidValue      ConfigErrorCode = "INVALID_VALUE"
	ErrCodeFractionSum       ConfigErrorCode = "FRACTION_SUM"
	ErrCodeDuplicateSource   ConfigErrorCode = "DUPLICATE_SOURCE"
	ErrCodeRegistryFrozen    ConfigErrorCode = "REGISTRY_FROZEN"
	ErrCodeReturnAirConflict ConfigErrorCode = "RETURN_AIR_CONFLICT"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("%s: %s (object=%s)", e.Code, e.Message, e.Object)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(code ConfigErrorCode, object, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Object: object, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// HasCode reports whether err wraps a ConfigError with the given code.
func HasCode(err error, code ConfigErrorCode) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
