package composer

import (
	"errors"
	"fmt"
)

// ErrDispatchInFlight rejects a second dispatch while one is pending for
// the same composer. The first call's outcome is unaffected.
var ErrDispatchInFlight = errors.New("another dispatch is already in flight")

// ValidationError means a precondition failed before any persistence call
// was attempted. It is surfaced synchronously and is not a backend fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	ErrNoContent       = &ValidationError{Reason: "post has no content"}
	ErrContentTooLong  = &ValidationError{Reason: "post body exceeds 3000 characters"}
	ErrCommentTooLong  = &ValidationError{Reason: "first comment exceeds 1250 characters"}
	ErrNoScheduleTime  = &ValidationError{Reason: "scheduled time is required"}
	ErrScheduleInPast  = &ValidationError{Reason: "scheduled time is in the past"}
	ErrBadTimezone     = &ValidationError{Reason: "unknown timezone"}
	ErrTooManyImages   = &ValidationError{Reason: "a post can hold at most 10 images"}
	ErrMultipleVideos  = &ValidationError{Reason: "a post can hold at most one video"}
	ErrMultiplePDFs    = &ValidationError{Reason: "a post can hold at most one PDF"}
)

// PersistenceError wraps a failed remote call. The composer's local state
// is always intact when one of these comes back; the user can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
