package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmailNotConfigured is returned when SMTP credentials are absent
var ErrEmailNotConfigured = errors.New("email delivery is not configured")

// ValidationFailedError carries every rule the submitted booking violated
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// InvalidTransitionError reports an illegal booking lifecycle step
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
