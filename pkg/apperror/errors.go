package apperror

import (
	"errors"
	"fmt"
)

// ValidationError is raised locally, before any network call. The user can
// fix the offending field and retry without touching the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// FetchError covers failed reads: the network call did not return success.
type FetchError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("request to %s failed", e.Endpoint)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmissionError carries the backend's rejection of a write. The message is
// surfaced verbatim when the backend sent one.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "submission rejected"
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// AuthError means there is no usable credential. Callers typically route the
// user back to login instead of retrying.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "not authenticated"
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
