package lock

import (
	"errors"
	"fmt"
)

// Domain-specific errors for lock command dispatch.
// Use errors.Is() / errors.As() to check for these errors in calling code.
var (
	// ErrUnknownAction is returned for actions other than lock/unlock.
	ErrUnknownAction = errors.New("lock: unknown action")

	// ErrUnknownMethod is returned for unrecognized authentication methods.
	ErrUnknownMethod = errors.New("lock: unknown authentication method")

	// ErrMissingActor is returned when no actor identity accompanies the
	// request. Every command is attributed to someone.
	ErrMissingActor = errors.New("lock: missing actor")
)

// Rejection reasons surfaced to the user. These are stable strings the
// UI matches on.
const (
	ReasonPinTooShort        = "pin too short/missing"
	ReasonMissingFaceImage   = "missing face image"
	ReasonMissingCredentials = "missing credential pair"
)

// ValidationError reports a method-specific precondition failure. It is
// local and recoverable: the user re-enters the credential and tries
// again. Nothing was sent.
type ValidationError struct {
	Method Method
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lock: %s validation failed: %s", e.Method, e.Reason)
}
