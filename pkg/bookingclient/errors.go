package bookingclient

import (
	"fmt"
	"strings"
)

// ValidationError means the booking draft was rejected locally, before any
// network call was made. Errors carries every failed rule.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// ConnectivityError means the backend could not be reached at all: the
// request never produced an HTTP response.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// BookingCreationError means the backend answered the create call with a
// non-2xx status. Message carries the server's error string when present.
type BookingCreationError struct {
	StatusCode int
	Message    string
}

func (e *BookingCreationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booking creation failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("booking creation failed (status %d)", e.StatusCode)
}
