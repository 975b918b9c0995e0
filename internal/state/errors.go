package state

import "errors"

// Domain-specific errors for state operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceNotFound is returned when a device ID is not in the store.
	ErrDeviceNotFound = errors.New("state: device not found")

	// ErrMissingDeviceID is returned for envelopes without a device identity.
	// Such envelopes are dropped rather than guessed at; they never reach
	// the store.
	ErrMissingDeviceID = errors.New("state: envelope missing device_id")

	// ErrInvalidSource is returned for envelopes whose source is neither
	// poll nor push.
	ErrInvalidSource = errors.New("state: envelope has invalid source")
)
