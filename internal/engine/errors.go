package engine

import "fmt"

// ConfigurationError means admin-authored configuration cannot support the
// computation (score-range gaps, missing required content). It is never
// silently defaulted away; callers must surface it.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func configErrf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError rejects caregiver input before any write happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

func validationErrf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StaleStateError means a write assumed persisted state that no longer
// holds (completing a video for a locked day, answering a task out of
// order). Rejecting keeps double-submission bugs visible.
type StaleStateError struct {
	Reason string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stale state: %s", e.Reason)
}

func staleErrf(format string, args ...interface{}) *StaleStateError {
	return &StaleStateError{Reason: fmt.Sprintf(format, args...)}
}
