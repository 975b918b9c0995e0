// Package connectivity tracks remote API health and rate-limits the
// user-facing "connection lost" notification.
package connectivity

import (
	"sync"
	"time"
)

// Status is the guard's view of the remote connection.
type Status string

// Connection states.
const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
)

// Logger is the minimal logging interface the connectivity package needs.
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

// DegradedFunc is invoked at most once per cooldown window when the
// connection degrades. reason describes the triggering failure.
type DegradedFunc func(reason string, streak int)

// Guard tracks consecutive outbound failures and fires a one-shot
// notification on the transition into Degraded.
//
// Repeated failures while already Degraded are logged but not re-notified
// until the cooldown elapses, so an extended outage produces one alert
// every cooldown period instead of one per failed poll.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Guard struct {
	mu sync.Mutex

	status     Status
	streak     int
	notifiedAt time.Time
	notified   bool

	cooldown   time.Duration
	onDegraded []DegradedFunc

	logger Logger
	now    func() time.Time
}

// NewGuard creates a guard in the Healthy state.
//
// cooldown is how long the notification stays suppressed after firing;
// zero or negative disables re-notification entirely until recovery.
func NewGuard(cooldown time.Duration) *Guard {
	return &Guard{
		status:   StatusHealthy,
		cooldown: cooldown,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets a logger for state transitions.
func (g *Guard) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	g.mu.Lock()
	g.logger = logger
	g.mu.Unlock()
}

// SetClock overrides the time source for tests.
func (g *Guard) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	g.mu.Lock()
	g.now = now
	g.mu.Unlock()
}

// OnDegraded registers a callback fired on each notifiable degradation.
// Callbacks run synchronously inside ReportFailure; keep them short.
func (g *Guard) OnDegraded(fn DegradedFunc) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	g.onDegraded = append(g.onDegraded, fn)
	g.mu.Unlock()
}

// ReportFailure records one failed outbound call.
//
// The registered callbacks fire only on the transition into Degraded, or
// when the cooldown has elapsed while the outage persists. Every failure
// is logged regardless.
func (g *Guard) ReportFailure(reason string) {
	g.mu.Lock()

	g.streak++
	g.status = StatusDegraded

	notify := false
	now := g.now()
	if !g.notified {
		notify = true
	} else if g.cooldown > 0 && now.Sub(g.notifiedAt) >= g.cooldown {
		// Long outage: the earlier alert has gone stale, re-arm once.
		notify = true
	}

	if notify {
		g.notified = true
		g.notifiedAt = now
		g.logger.Warn("remote connection degraded",
			"reason", reason,
			"streak", g.streak,
		)
	} else {
		g.logger.Debug("remote failure while degraded",
			"reason", reason,
			"streak", g.streak,
		)
	}

	callbacks := make([]DegradedFunc, len(g.onDegraded))
	copy(callbacks, g.onDegraded)
	streak := g.streak
	g.mu.Unlock()

	if notify {
		for _, fn := range callbacks {
			fn(reason, streak)
		}
	}
}

// ReportSuccess records one successful outbound call, returning the guard
// to Healthy immediately and clearing the notification latch. Recovery
// needs no cooldown.
func (g *Guard) ReportSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status == StatusDegraded {
		g.logger.Info("remote connection recovered", "failed_calls", g.streak)
	}
	g.status = StatusHealthy
	g.streak = 0
	g.notified = false
	g.notifiedAt = time.Time{}
}

// Status returns the current connection state.
func (g *Guard) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Streak returns the current consecutive failure count.
func (g *Guard) Streak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streak
}
