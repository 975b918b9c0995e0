package state

import (
	"sync"
	"time"
)

// Logger is the minimal logging interface the state package needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is set.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Subscriber is notified after every accepted upsert with an isolated
// copy of the updated record. Subscribers must not block; long-running
// work should be handed off to a goroutine.
type Subscriber func(Record)

// Store is the in-memory authoritative cache of device records.
//
// It exclusively owns all Record instances; callers receive deep copies
// and submit changes through Upsert. Records are never removed, matching
// the fixed device population of a home.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record

	// order preserves first-seen insertion order for stable listings.
	order []string

	subMu       sync.RWMutex
	subscribers []Subscriber

	logger Logger
}

// NewStore creates an empty device state store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
		logger:  noopLogger{},
	}
}

// SetLogger sets a logger for upsert diagnostics.
func (s *Store) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// Get returns a copy of the record for the given device ID.
//
// Returns ErrDeviceNotFound if the device has never been observed.
func (s *Store) Get(deviceID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[deviceID]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return rec.DeepCopy(), nil
}

// List returns copies of all records, in first-seen insertion order.
// If kind is non-empty, only records of that kind are returned.
func (s *Store) List(kind Kind) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		rec := s.records[id]
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, *rec.DeepCopy())
	}
	return out
}

// Count returns the number of known devices.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Upsert merges partial attributes into the record for deviceID, creating
// the record on first observation.
//
// The merge is field-level: attributes absent from attrs are preserved,
// never removed. Every call increments Version by exactly 1, even when no
// field value actually changed (the source still touched the record).
//
// The returned record is an isolated copy.
func (s *Store) Upsert(deviceID string, kind Kind, attrs Attributes, source Source, at time.Time) *Record {
	s.mu.Lock()

	rec, ok := s.records[deviceID]
	if !ok {
		rec = &Record{
			DeviceID:   deviceID,
			Kind:       kind,
			Attributes: make(Attributes, len(attrs)),
		}
		s.records[deviceID] = rec
		s.order = append(s.order, deviceID)
	}

	for k, v := range attrs {
		rec.Attributes[k] = deepCopyValue(v)
	}
	rec.LastUpdateSource = source
	rec.LastUpdateAt = at
	rec.Version++

	s.logger.Debug("device state upserted",
		"device_id", deviceID,
		"source", source,
		"version", rec.Version,
		"fields", len(attrs),
	)

	cpy := rec.DeepCopy()
	s.mu.Unlock()

	s.notify(*cpy)
	return cpy
}

// Subscribe registers a callback invoked after every accepted upsert.
// Subscriptions cannot be removed; they live for the process lifetime.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

// notify fans an updated record out to all subscribers. Each subscriber
// receives its own copy so none can mutate another's view.
func (s *Store) notify(rec Record) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		cpy := rec.DeepCopy()
		fn(*cpy)
	}
}
