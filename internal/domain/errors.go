package domain

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid horizon or phase-split parameter.
// It is fatal at startup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ValidationError reports a single edited cell that failed coercion.
// The cell keeps its previous value; the rest of the batch still applies.
type ValidationError struct {
	Resource string
	Month    MonthKey
	Input    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s / %s: %q %s", e.Resource, e.Month, e.Input, e.Reason)
}

// StateConflictError reports an edit that targets a cell outside the
// partition being reconciled. It indicates a logic error and must not be
// ignored.
type StateConflictError struct {
	Resource string
	Month    MonthKey
	Phase    string
	Reason   string
}

func (e *StateConflictError) Error() string {
	msg := "state conflict"
	if e.Phase != "" {
		msg += " in " + e.Phase
	}
	if e.Resource != "" {
		msg += ": " + e.Resource
	}
	if !e.Month.IsZero() {
		msg += " / " + e.Month.String()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsStateConflict reports whether err wraps a *StateConflictError.
func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}
