package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearth-home/hearth-core/internal/alarm"
	"github.com/hearth-home/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearth-home/hearth-core/internal/state"
)

// Logger is the minimal logging interface the bridge package needs.
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

// Subscriber is the slice of the MQTT client Ingress needs.
// Satisfied by *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Reconciler consumes incoming state envelopes. Satisfied by
// *state.Reconciler.
type Reconciler interface {
	Apply(env state.Envelope) (bool, error)
}

// EventSink consumes alarm events. Satisfied by *alarm.Log.
type EventSink interface {
	Append(ctx context.Context, ev alarm.Event) (bool, error)
}

// Ingress subscribes to the device topic tree and routes traffic into the
// reconciler and the alarm event log.
type Ingress struct {
	sub    Subscriber
	rec    Reconciler
	events EventSink
	qos    byte
	logger Logger

	topics mqtt.Topics

	// Injectable for deterministic tests.
	now func() time.Time
}

// NewIngress wires the bridge input side.
func NewIngress(sub Subscriber, rec Reconciler, events EventSink, qos byte) *Ingress {
	return &Ingress{
		sub:    sub,
		rec:    rec,
		events: events,
		qos:    qos,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets a logger for message handling diagnostics.
func (in *Ingress) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	in.logger = logger
}

// SetClock overrides the time source for tests.
func (in *Ingress) SetClock(now func() time.Time) {
	if now != nil {
		in.now = now
	}
}

// Start subscribes to the state and event wildcards. Subscriptions are
// re-established automatically by the MQTT client on reconnect.
func (in *Ingress) Start() error {
	if err := in.sub.Subscribe(in.topics.AllDeviceStates(), in.qos, in.HandleState); err != nil {
		return fmt.Errorf("subscribing to device states: %w", err)
	}
	if err := in.sub.Subscribe(in.topics.AllDeviceEvents(), in.qos, in.HandleEvent); err != nil {
		return fmt.Errorf("subscribing to device events: %w", err)
	}
	in.logger.Info("bridge ingress started",
		"state_topic", in.topics.AllDeviceStates(),
		"event_topic", in.topics.AllDeviceEvents(),
	)
	return nil
}

// HandleState processes one state message into a push envelope.
func (in *Ingress) HandleState(topic string, payload []byte) error {
	parsed, err := mqtt.ParseDeviceTopic(topic)
	if err != nil {
		return err
	}
	kind, ok := kindFromSegment(parsed.Kind)
	if !ok {
		return fmt.Errorf("bridge: unknown device kind segment %q", parsed.Kind)
	}

	var attrs state.Attributes
	if err := json.Unmarshal(payload, &attrs); err != nil {
		return fmt.Errorf("bridge: decoding state payload: %w", err)
	}

	receivedAt := in.extractTimestamp(attrs)
	delete(attrs, "timestamp")
	delete(attrs, "device_id") // identity comes from the topic

	applied, err := in.rec.Apply(state.Envelope{
		DeviceID:   parsed.DeviceID,
		Kind:       kind,
		Source:     state.SourcePush,
		Payload:    attrs,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		return fmt.Errorf("bridge: applying state update: %w", err)
	}
	if !applied {
		in.logger.Debug("state update not applied", "device_id", parsed.DeviceID, "topic", topic)
	}
	return nil
}

// eventPayload is the wire shape of a device event message.
type eventPayload struct {
	EventType  string   `json:"event_type"`
	Detail     string   `json:"detail"`
	SmokeLevel *float64 `json:"smoke_level"`
	Timestamp  string   `json:"timestamp"`
}

// HandleEvent processes one event message. Smoke alarm events feed the
// alarm log; other kinds have no event consumers yet and are logged.
func (in *Ingress) HandleEvent(topic string, payload []byte) error {
	parsed, err := mqtt.ParseDeviceTopic(topic)
	if err != nil {
		return err
	}
	kind, ok := kindFromSegment(parsed.Kind)
	if !ok {
		return fmt.Errorf("bridge: unknown device kind segment %q", parsed.Kind)
	}

	if kind != state.KindAlarm {
		in.logger.Debug("event ignored for kind without event consumers",
			"kind", kind,
			"device_id", parsed.DeviceID,
		)
		return nil
	}

	var ev eventPayload
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("bridge: decoding event payload: %w", err)
	}

	ts := in.now()
	if ev.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339Nano, ev.Timestamp); err == nil {
			ts = t
		} else if t, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			ts = t
		}
	}

	accepted, err := in.events.Append(context.Background(), alarm.Event{
		AlarmID:    parsed.DeviceID,
		EventType:  alarm.EventType(ev.EventType),
		Detail:     ev.Detail,
		SmokeLevel: ev.SmokeLevel,
		Timestamp:  ts,
	})
	if err != nil {
		return fmt.Errorf("bridge: appending alarm event: %w", err)
	}
	if !accepted {
		in.logger.Debug("duplicate alarm event ignored", "alarm_id", parsed.DeviceID, "event_type", ev.EventType)
	}
	return nil
}

// extractTimestamp pulls the message timestamp out of the payload,
// accepting RFC3339 strings or unix seconds. Falls back to receipt time.
func (in *Ingress) extractTimestamp(attrs state.Attributes) time.Time {
	raw, ok := attrs["timestamp"]
	if !ok {
		return in.now()
	}

	switch v := raw.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case float64:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec)
	}
	return in.now()
}
