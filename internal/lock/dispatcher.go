package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Logger is the minimal logging interface the lock package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sender delivers a validated command to the remote lock. Implemented by
// the MQTT command bridge; tests substitute a recorder.
type Sender interface {
	SendLockCommand(ctx context.Context, cmd Command) error
}

// Dispatcher validates credential form data and emits lock commands.
//
// It is stateless between dispatches and safe for concurrent use.
type Dispatcher struct {
	sender Sender
	logger Logger

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewDispatcher creates a dispatcher that sends through sender.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: noopLogger{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SetLogger sets a logger for dispatch outcomes.
func (d *Dispatcher) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	d.logger = logger
}

// Dispatch validates the request and, if every precondition holds, builds
// and sends exactly one command.
//
// Returns the sent command on success. On a precondition failure it
// returns a *ValidationError and sends nothing. Whatever the outcome,
// form is cleared before Dispatch returns.
//
// The remote lock's response arrives later as a push update; a nil error
// here means "accepted for delivery", not "lock state changed".
func (d *Dispatcher) Dispatch(ctx context.Context, lockID string, action Action, method Method, actor string, form *FormData) (*Command, error) {
	defer form.Clear()

	if action != ActionLock && action != ActionUnlock {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if actor == "" {
		return nil, ErrMissingActor
	}

	cred, err := buildCredential(method, form)
	if err != nil {
		d.logger.Info("lock command rejected",
			"lock_id", lockID,
			"action", action,
			"method", method,
			"actor", actor,
			"error", err,
		)
		return nil, err
	}

	cmd := Command{
		CommandID:  d.newID(),
		LockID:     lockID,
		Action:     action,
		Method:     method,
		Actor:      actor,
		Credential: cred,
		IssuedAt:   d.now(),
	}

	if err := d.sender.SendLockCommand(ctx, cmd); err != nil {
		return nil, fmt.Errorf("lock: send command: %w", err)
	}

	d.logger.Info("lock command dispatched",
		"command_id", cmd.CommandID,
		"lock_id", lockID,
		"action", action,
		"method", method,
		"actor", actor,
	)
	return &cmd, nil
}

// Validate checks the method preconditions without sending anything.
// The UI uses this to reject bad input before a dispatch attempt.
func Validate(method Method, form *FormData) error {
	_, err := buildCredential(method, form)
	return err
}

// buildCredential applies the method-specific precondition and returns
// the credential variant for a Ready command. One exhaustive match; no
// per-method branching anywhere else.
func buildCredential(method Method, form *FormData) (Credential, error) {
	switch method {
	case MethodPincode:
		if form == nil || len(form.PIN) < 4 {
			return nil, &ValidationError{Method: method, Reason: ReasonPinTooShort}
		}
		return PINCredential{PIN: form.PIN}, nil

	case MethodFace:
		if form == nil || form.FaceImage == "" {
			return nil, &ValidationError{Method: method, Reason: ReasonMissingFaceImage}
		}
		return FaceCredential{Image: form.FaceImage}, nil

	case MethodFingerprint:
		if form == nil || form.Username == "" || form.Secret == "" {
			return nil, &ValidationError{Method: method, Reason: ReasonMissingCredentials}
		}
		return FingerprintCredential{Username: form.Username, Secret: form.Secret}, nil

	case MethodApp, MethodRemote:
		// Actor identity is the whole credential.
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
