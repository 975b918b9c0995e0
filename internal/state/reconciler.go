package state

import (
	"sync"
	"time"
)

// Reconciler applies incoming envelopes to the store according to the
// poll/push merge policy. It is the only writer the store should have.
type Reconciler struct {
	store *Store

	// tolerance absorbs clock skew between the remote system and this
	// process when comparing poll timestamps against the record.
	tolerance time.Duration

	// mu serializes Apply so the staleness check and the resulting
	// upsert happen atomically with respect to other envelopes.
	mu sync.Mutex

	logger Logger
}

// NewReconciler creates a reconciler writing to store.
//
// tolerance is how much older than the record's last update a poll
// snapshot may be and still apply. Negative values are treated as zero.
func NewReconciler(store *Store, tolerance time.Duration) *Reconciler {
	if tolerance < 0 {
		tolerance = 0
	}
	return &Reconciler{
		store:     store,
		tolerance: tolerance,
		logger:    noopLogger{},
	}
}

// SetLogger sets a logger for reconciliation decisions.
func (r *Reconciler) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Apply evaluates one envelope and merges it into the store if accepted.
// It is safe for concurrent use; envelopes are arbitrated one at a time,
// so a poll racing a fresh push can never overwrite it.
//
// Returns (true, nil) when the update was applied, (false, nil) when it
// was a stale poll dropped by policy, and (false, err) when the envelope
// is malformed and was never considered.
//
// Decision order:
//  1. No device ID: reject with ErrMissingDeviceID.
//  2. Unknown source: reject with ErrInvalidSource.
//  3. Unknown device: create the record, whatever the source.
//  4. Push: always applies.
//  5. Poll: applies unless ReceivedAt predates the record's last update
//     by more than the tolerance.
func (r *Reconciler) Apply(env Envelope) (bool, error) {
	if env.DeviceID == "" {
		return false, ErrMissingDeviceID
	}
	if env.Source != SourcePoll && env.Source != SourcePush {
		return false, ErrInvalidSource
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, err := r.store.Get(env.DeviceID)
	if err == nil && env.Source == SourcePoll {
		cutoff := prev.LastUpdateAt.Add(-r.tolerance)
		if env.ReceivedAt.Before(cutoff) {
			r.logger.Debug("stale poll dropped",
				"device_id", env.DeviceID,
				"received_at", env.ReceivedAt,
				"last_update_at", prev.LastUpdateAt,
			)
			return false, nil
		}
	}

	var prevAttrs Attributes
	kind := env.Kind
	if prev != nil {
		prevAttrs = prev.Attributes
		if kind == "" {
			kind = prev.Kind
		}
	}

	attrs := normalizeAttributes(kind, env.Payload, prevAttrs)
	r.store.Upsert(env.DeviceID, kind, attrs, env.Source, env.ReceivedAt)
	return true, nil
}
