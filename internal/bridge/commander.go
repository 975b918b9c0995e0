package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearth-home/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearth-home/hearth-core/internal/lock"
	"github.com/hearth-home/hearth-core/internal/state"
)

// Publisher is the slice of the MQTT client Commander needs.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Guard receives the outcome of every outbound publish. Satisfied by
// *connectivity.Guard.
type Guard interface {
	ReportFailure(reason string)
	ReportSuccess()
}

// Commander publishes control traffic to devices. Every publish outcome
// is reported to the connectivity guard, success and failure alike.
type Commander struct {
	pub    Publisher
	guard  Guard
	qos    byte
	logger Logger

	topics mqtt.Topics
}

// NewCommander wires the bridge output side.
func NewCommander(pub Publisher, guard Guard, qos byte) *Commander {
	return &Commander{
		pub:    pub,
		guard:  guard,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets a logger for publish diagnostics.
func (c *Commander) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// publish marshals v and sends it to topic, routing the outcome through
// the guard.
func (c *Commander) publish(ctx context.Context, topic string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("bridge: encoding command payload: %w", err)
	}

	if err := c.pub.Publish(topic, payload, c.qos, false); err != nil {
		c.guard.ReportFailure(fmt.Sprintf("publish %s: %v", topic, err))
		return fmt.Errorf("bridge: publishing to %s: %w", topic, err)
	}

	c.guard.ReportSuccess()
	c.logger.Debug("command published", "topic", topic)
	return nil
}

// SendLockCommand publishes a validated lock command. Implements
// lock.Sender.
func (c *Commander) SendLockCommand(ctx context.Context, cmd lock.Command) error {
	topic := c.topics.DeviceCommand(segmentLock, cmd.LockID)
	return c.publish(ctx, topic, cmd)
}

// autoAdjustPayload is the wire shape of an ambient sample.
type autoAdjustPayload struct {
	RoomBrightness float64 `json:"room_brightness"`
	Timestamp      string  `json:"timestamp"`
}

// SendAutoAdjust publishes an ambient sample to one light. Implements
// lighting.SampleSender.
func (c *Commander) SendAutoAdjust(ctx context.Context, lightID string, roomBrightness float64) error {
	topic := c.topics.LightingAutoAdjust(lightID)
	return c.publish(ctx, topic, autoAdjustPayload{
		RoomBrightness: roomBrightness,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// SendDeviceControl publishes a generic attribute-change command (power,
// brightness, color_temp, auto_mode, sensitivity).
func (c *Commander) SendDeviceControl(ctx context.Context, kind state.Kind, deviceID string, changes map[string]any) error {
	segment, ok := segmentFromKind(kind)
	if !ok {
		return fmt.Errorf("bridge: no command topic for kind %q", kind)
	}
	topic := c.topics.DeviceCommand(segment, deviceID)
	return c.publish(ctx, topic, changes)
}

// alarmTestPayload is the wire shape of an alarm test toggle.
type alarmTestPayload struct {
	Action string `json:"action"`
}

// SendAlarmTest publishes a test-mode toggle to one smoke alarm.
func (c *Commander) SendAlarmTest(ctx context.Context, alarmID string, start bool) error {
	action := "test_stop"
	if start {
		action = "test_start"
	}
	topic := c.topics.DeviceCommand(segmentSmokeAlarm, alarmID)
	return c.publish(ctx, topic, alarmTestPayload{Action: action})
}
