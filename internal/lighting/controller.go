package lighting

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/hearth-home/hearth-core/internal/state"
)

// Day/night scaling and jitter bounds for the ambient model.
const (
	dayFactorMin    = 1.0
	dayFactorSpan   = 0.1 // factor in [1.0, 1.1]
	nightFactorMin  = 0.6
	nightFactorSpan = 0.2 // factor in [0.6, 0.8]
	noiseFraction   = 0.15
)

// Logger is the minimal logging interface the lighting package needs.
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

// StateReader is the read-only slice of the state store the controller
// needs. Satisfied by *state.Store.
type StateReader interface {
	Get(deviceID string) (*state.Record, error)
	List(kind state.Kind) []state.Record
}

// SampleSender pushes an ambient sample to one light. Implemented by the
// MQTT command bridge.
type SampleSender interface {
	SendAutoAdjust(ctx context.Context, lightID string, roomBrightness float64) error
}

// AmbientRecorder receives every generated sample for telemetry.
// Optional; implemented by the InfluxDB sink.
type AmbientRecorder interface {
	WriteAmbientSample(lightID string, roomBrightness float64)
}

// Config tunes the ambient model.
type Config struct {
	// TargetLux is the baseline ambient level samples are generated around.
	TargetLux float64

	// DayStartHour and DayEndHour bound the daytime window, local time.
	// Hours in [DayStartHour, DayEndHour) scale the target up; all other
	// hours scale it down.
	DayStartHour int
	DayEndHour   int

	// Tick is the sampling interval for the Run loop.
	Tick time.Duration
}

// Sample is one ambient observation plus the send decision for a light.
type Sample struct {
	RoomBrightness float64 `json:"room_brightness"`
	ShouldSend     bool    `json:"should_send"`
}

// Controller generates ambient samples and fans them out to auto-mode
// lights on a timer.
type Controller struct {
	reader StateReader
	sender SampleSender
	cfg    Config
	logger Logger

	recorder AmbientRecorder

	// Injectable for deterministic tests.
	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewController creates a controller reading device state from reader and
// sending samples through sender.
func NewController(reader StateReader, sender SampleSender, cfg Config) *Controller {
	return &Controller{
		reader: reader,
		sender: sender,
		cfg:    cfg,
		logger: noopLogger{},
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetLogger sets a logger for sampling diagnostics.
func (c *Controller) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// SetRecorder attaches a telemetry sink for generated samples.
func (c *Controller) SetRecorder(rec AmbientRecorder) {
	c.recorder = rec
}

// SetClock overrides the time source. Tests use this to pin the hour.
func (c *Controller) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SetRand overrides the noise source. Tests use this for reproducibility.
func (c *Controller) SetRand(rng *rand.Rand) {
	if rng != nil {
		c.rngMu.Lock()
		c.rng = rng
		c.rngMu.Unlock()
	}
}

// Sample generates one ambient observation for the given light.
//
// The returned RoomBrightness is always >= 0 and rounded to one decimal.
// ShouldSend is true only when the light currently has auto_mode enabled;
// the sample itself is generated either way so callers can record ambient
// context for lights that are manual right now.
//
// Returns state.ErrDeviceNotFound if the light is unknown.
func (c *Controller) Sample(lightID string) (Sample, error) {
	rec, err := c.reader.Get(lightID)
	if err != nil {
		return Sample{}, err
	}

	lux := c.ambient()
	auto, _ := rec.Attributes["auto_mode"].(bool)

	if c.recorder != nil {
		c.recorder.WriteAmbientSample(lightID, lux)
	}

	return Sample{RoomBrightness: lux, ShouldSend: auto}, nil
}

// ambient draws one lux value around the configured target: the day/night
// factor shifts the mean, bounded jitter of ±15% spreads it. The jitter
// scales the shifted value, so samples stay within factor*(1±0.15) of the
// target whatever the time of day.
func (c *Controller) ambient() float64 {
	c.rngMu.Lock()
	var factor float64
	if c.isDay(c.now()) {
		factor = dayFactorMin + c.rng.Float64()*dayFactorSpan
	} else {
		factor = nightFactorMin + c.rng.Float64()*nightFactorSpan
	}
	noise := (c.rng.Float64()*2 - 1) * noiseFraction
	c.rngMu.Unlock()

	lux := c.cfg.TargetLux * factor * (1 + noise)
	if lux < 0 {
		lux = 0
	}
	return math.Round(lux*10) / 10
}

func (c *Controller) isDay(t time.Time) bool {
	h := t.Hour()
	return h >= c.cfg.DayStartHour && h < c.cfg.DayEndHour
}

// Run samples every auto-mode light on each tick until ctx is cancelled.
// Send failures are logged and the loop moves on; the connectivity guard
// inside the sender handles notification suppression.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	c.logger.Info("lighting auto-adjust loop started",
		"tick", c.cfg.Tick,
		"target_lux", c.cfg.TargetLux,
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("lighting auto-adjust loop stopped")
			return ctx.Err()
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick runs one sampling pass over all known lights.
func (c *Controller) tick(ctx context.Context) {
	for _, rec := range c.reader.List(state.KindLight) {
		sample, err := c.Sample(rec.DeviceID)
		if err != nil {
			continue
		}
		if !sample.ShouldSend {
			c.logger.Debug("auto-adjust skipped", "light_id", rec.DeviceID, "auto_mode", false)
			continue
		}
		if err := c.sender.SendAutoAdjust(ctx, rec.DeviceID, sample.RoomBrightness); err != nil {
			c.logger.Warn("auto-adjust send failed",
				"light_id", rec.DeviceID,
				"error", err,
			)
		}
	}
}
