package lighting_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/lighting"
	"github.com/hearth-home/hearth-core/internal/state"
)

type recordingSender struct {
	sent map[string][]float64
}

func (r *recordingSender) SendAutoAdjust(_ context.Context, lightID string, lux float64) error {
	if r.sent == nil {
		r.sent = make(map[string][]float64)
	}
	r.sent[lightID] = append(r.sent[lightID], lux)
	return nil
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
	}
}

func newTestController(t *testing.T, store *state.Store, sender lighting.SampleSender, hour int) *lighting.Controller {
	t.Helper()
	c := lighting.NewController(store, sender, lighting.Config{
		TargetLux:    30,
		DayStartHour: 7,
		DayEndHour:   18,
		Tick:         10 * time.Second,
	})
	c.SetClock(fixedClock(hour))
	c.SetRand(rand.New(rand.NewSource(1)))
	return c
}

func seedLight(store *state.Store, id string, autoMode bool) {
	store.Upsert(id, state.KindLight, state.Attributes{
		"power":     true,
		"auto_mode": autoMode,
	}, state.SourcePush, time.Now())
}

func TestSample_UnknownLight(t *testing.T) {
	c := newTestController(t, state.NewStore(), &recordingSender{}, 12)

	_, err := c.Sample("ghost")
	if !errors.Is(err, state.ErrDeviceNotFound) {
		t.Errorf("Sample() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSample_ShouldSendFollowsAutoMode(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_auto", true)
	seedLight(store, "light_manual", false)
	c := newTestController(t, store, &recordingSender{}, 12)

	s, err := c.Sample("light_auto")
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if !s.ShouldSend {
		t.Error("ShouldSend = false for auto_mode light, want true")
	}

	s, err = c.Sample("light_manual")
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if s.ShouldSend {
		t.Error("ShouldSend = true for manual light, want false")
	}
	if s.RoomBrightness < 0 {
		t.Error("sample must still be generated for manual lights")
	}
}

func TestSample_DaytimeDistribution(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_room1", true)
	c := newTestController(t, store, &recordingSender{}, 12) // noon, inside day window

	const target = 30.0
	lo := target * 1.0 * 0.85 // day factor min, full negative noise
	hi := target * 1.1 * 1.15 // day factor max, full positive noise

	for i := 0; i < 1000; i++ {
		s, err := c.Sample("light_room1")
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if s.RoomBrightness < 0 {
			t.Fatalf("RoomBrightness = %v, must be >= 0", s.RoomBrightness)
		}
		if s.RoomBrightness < lo-0.05 || s.RoomBrightness > hi+0.05 {
			t.Fatalf("daytime sample %v outside [%v, %v]", s.RoomBrightness, lo, hi)
		}
		if math.Round(s.RoomBrightness*10)/10 != s.RoomBrightness {
			t.Fatalf("RoomBrightness = %v, want one decimal place", s.RoomBrightness)
		}
	}
}

func TestSample_NighttimeDistribution(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_room1", true)
	c := newTestController(t, store, &recordingSender{}, 23) // outside day window

	const target = 30.0
	lo := target * 0.6 * 0.85
	hi := target * 0.8 * 1.15

	for i := 0; i < 1000; i++ {
		s, err := c.Sample("light_room1")
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if s.RoomBrightness < lo-0.05 || s.RoomBrightness > hi+0.05 {
			t.Fatalf("nighttime sample %v outside [%v, %v]", s.RoomBrightness, lo, hi)
		}
	}
}

func TestSample_DayWindowBoundaries(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_room1", true)

	// Night samples around a 30 target cannot exceed 30*0.8*1.15=27.6;
	// day samples cannot fall below 30*1.0*0.85=25.5. Averages over many
	// samples separate cleanly.
	avg := func(hour int) float64 {
		c := newTestController(t, store, &recordingSender{}, hour)
		var sum float64
		for i := 0; i < 500; i++ {
			s, _ := c.Sample("light_room1")
			sum += s.RoomBrightness
		}
		return sum / 500
	}

	if day, night := avg(7), avg(18); day <= night {
		t.Errorf("avg at 07h = %v should exceed avg at 18h = %v (window is [7,18))", day, night)
	}
}

func TestController_TickSendsOnlyAutoLights(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_auto", true)
	seedLight(store, "light_manual", false)
	sender := &recordingSender{}

	c := lighting.NewController(store, sender, lighting.Config{
		TargetLux:    30,
		DayStartHour: 7,
		DayEndHour:   18,
		Tick:         time.Millisecond,
	})
	c.SetClock(fixedClock(12))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	c.Run(ctx)

	if len(sender.sent["light_auto"]) == 0 {
		t.Error("auto_mode light received no samples")
	}
	if len(sender.sent["light_manual"]) != 0 {
		t.Error("manual light must not receive samples")
	}
}

type recordingRecorder struct {
	samples []float64
}

func (r *recordingRecorder) WriteAmbientSample(_ string, lux float64) {
	r.samples = append(r.samples, lux)
}

func TestSample_RecorderReceivesEverySample(t *testing.T) {
	store := state.NewStore()
	seedLight(store, "light_manual", false)
	c := newTestController(t, store, &recordingSender{}, 12)

	rec := &recordingRecorder{}
	c.SetRecorder(rec)

	for i := 0; i < 3; i++ {
		if _, err := c.Sample("light_manual"); err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
	}
	if len(rec.samples) != 3 {
		t.Errorf("recorder saw %d samples, want 3 (manual lights still recorded)", len(rec.samples))
	}
}
