package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEmail is returned when the registration body resolves no email.
	ErrNoEmail = errors.New("registration body has no email")
	// ErrIncompleteIdentity is returned when the basic registration answers
	// without a customer id or access token.
	ErrIncompleteIdentity = errors.New("registration response is missing customer id or access token")
	// ErrInvalidProductSelection is returned for an unusable productSelection override.
	ErrInvalidProductSelection = errors.New("invalid productSelection override")
	// ErrNoAdminToken is returned when the backoffice login answers without a token.
	ErrNoAdminToken = errors.New("backoffice login returned no token")
)

// StepError reports which step failed. Steps already executed are not rolled back.
type StepError struct {
	Step Step
	Err  error
}

// Error implements the error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("registration step %s: %v", e.Step, e.Err)
}

// Unwrap supports error unwrapping
func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step an error came from, or "" if none.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
