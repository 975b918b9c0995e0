package alarm

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Default and maximum query limits.
const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200
)

// Domain-specific errors for the alarm event log.
var (
	// ErrMissingAlarmID is returned for events without an alarm identity.
	ErrMissingAlarmID = errors.New("alarm: event missing alarm_id")

	// ErrUnknownEventType is returned for event types outside the known set.
	ErrUnknownEventType = errors.New("alarm: unknown event type")
)

// Logger is the minimal logging interface the alarm package needs.
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

// Log is the in-memory, append-only alarm event log.
//
// Duplicates (same alarm, type, and timestamp) are absorbed silently.
// Backfilled events older than the newest entry are stored for history
// queries but never move the latest pointer.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Log struct {
	mu     sync.RWMutex
	seen   map[key]struct{}
	events map[string][]Event // per alarm, ascending by timestamp
	latest map[string]Event

	repo   Repository
	logger Logger
}

// NewLog creates an empty alarm event log.
func NewLog() *Log {
	return &Log{
		seen:   make(map[key]struct{}),
		events: make(map[string][]Event),
		latest: make(map[string]Event),
		logger: noopLogger{},
	}
}

// SetLogger sets a logger for append diagnostics.
func (l *Log) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	l.mu.Lock()
	l.logger = logger
	l.mu.Unlock()
}

// SetRepository attaches a persistence backend. Accepted events are saved
// best-effort; a save failure is logged and does not reject the event.
func (l *Log) SetRepository(repo Repository) {
	l.mu.Lock()
	l.repo = repo
	l.mu.Unlock()
}

// Append records one event.
//
// Returns true if the event was accepted, false if it was a duplicate.
// Malformed events (no alarm ID, unknown type) return an error and are
// never stored.
func (l *Log) Append(ctx context.Context, ev Event) (bool, error) {
	if ev.AlarmID == "" {
		return false, ErrMissingAlarmID
	}
	if _, ok := validEventTypes[ev.EventType]; !ok {
		return false, ErrUnknownEventType
	}

	l.mu.Lock()

	k := ev.key()
	if _, dup := l.seen[k]; dup {
		l.logger.Debug("duplicate alarm event dropped",
			"alarm_id", ev.AlarmID,
			"event_type", ev.EventType,
			"timestamp", ev.Timestamp,
		)
		l.mu.Unlock()
		return false, nil
	}
	l.seen[k] = struct{}{}

	// Insert keeping the per-alarm slice ascending by timestamp. Backfill
	// is rare, so a binary search plus one copy is plenty.
	evs := l.events[ev.AlarmID]
	i := sort.Search(len(evs), func(i int) bool {
		return evs[i].Timestamp.After(ev.Timestamp)
	})
	evs = append(evs, Event{})
	copy(evs[i+1:], evs[i:])
	evs[i] = ev
	l.events[ev.AlarmID] = evs

	cur, ok := l.latest[ev.AlarmID]
	if !ok || !ev.Timestamp.Before(cur.Timestamp) {
		l.latest[ev.AlarmID] = ev
	}

	repo := l.repo
	logger := l.logger
	l.mu.Unlock()

	if repo != nil {
		if err := repo.Save(ctx, ev); err != nil {
			logger.Warn("alarm event persistence failed",
				"alarm_id", ev.AlarmID,
				"event_type", ev.EventType,
				"error", err,
			)
		}
	}

	return true, nil
}

// Query returns up to limit events for one alarm, most recent first.
// A limit <= 0 uses the default; oversized limits are capped.
func (l *Log) Query(alarmID string, limit int) []Event {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	evs := l.events[alarmID]
	n := len(evs)
	if limit > n {
		limit = n
	}

	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, evs[i])
	}
	return out
}

// Latest returns the most recent event for an alarm by timestamp, as seen
// at append time. Backfilled history never changes this.
func (l *Log) Latest(alarmID string) (Event, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ev, ok := l.latest[alarmID]
	return ev, ok
}

// Count returns the number of stored events for an alarm.
func (l *Log) Count(alarmID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events[alarmID])
}
