package remote

import (
	"context"
	"time"

	"github.com/hearth-home/hearth-core/internal/state"
)

// Logger is the minimal logging interface the remote package needs.
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

// Fetcher is the slice of the client the poller needs. Tests substitute
// a canned implementation.
type Fetcher interface {
	FetchDevices(ctx context.Context) ([]Device, error)
}

// Reconciler consumes poll envelopes. Satisfied by *state.Reconciler.
type Reconciler interface {
	Apply(env state.Envelope) (bool, error)
}

// Guard receives the outcome of every poll cycle. Satisfied by
// *connectivity.Guard.
type Guard interface {
	ReportFailure(reason string)
	ReportSuccess()
}

// Poller fetches the device listing on a fixed interval and feeds each
// device through the reconciler as a poll-source envelope.
type Poller struct {
	fetcher  Fetcher
	rec      Reconciler
	guard    Guard
	interval time.Duration
	logger   Logger

	now func() time.Time
}

// NewPoller creates a poller running every interval.
func NewPoller(fetcher Fetcher, rec Reconciler, guard Guard, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		rec:      rec,
		guard:    guard,
		interval: interval,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets a logger for poll diagnostics.
func (p *Poller) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

// SetClock overrides the time source for tests.
func (p *Poller) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately so
// the store is warm before the first render.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("remote poller started", "interval", p.interval)

	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("remote poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one fetch-and-reconcile cycle.
func (p *Poller) Poll(ctx context.Context) {
	devices, err := p.fetcher.FetchDevices(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.guard.ReportFailure(err.Error())
		return
	}
	p.guard.ReportSuccess()

	applied := 0
	for _, d := range devices {
		kind, ok := ParseKind(d.Kind)
		if !ok {
			p.logger.Warn("poll skipped device with unknown kind",
				"device_id", d.DeviceID,
				"kind", d.Kind,
			)
			continue
		}

		ok, err := p.rec.Apply(state.Envelope{
			DeviceID:   d.DeviceID,
			Kind:       kind,
			Source:     state.SourcePoll,
			Payload:    d.Attributes,
			ReceivedAt: ParseTimestamp(d.Timestamp, p.now()),
		})
		if err != nil {
			p.logger.Warn("poll envelope rejected",
				"device_id", d.DeviceID,
				"error", err,
			)
			continue
		}
		if ok {
			applied++
		}
	}

	p.logger.Debug("poll cycle complete", "devices", len(devices), "applied", applied)
}
