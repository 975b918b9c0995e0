package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hearth-home/hearth-core/internal/bridge"
	"github.com/hearth-home/hearth-core/internal/lock"
	"github.com/hearth-home/hearth-core/internal/state"
)

type published struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	messages []published
	err      error
}

func (f *fakePublisher) Publish(topic string, payload []byte, _ byte, _ bool) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{topic: topic, payload: payload})
	return nil
}

type fakeGuard struct {
	failures  int
	successes int
}

func (f *fakeGuard) ReportFailure(string) { f.failures++ }
func (f *fakeGuard) ReportSuccess()       { f.successes++ }

func TestCommander_SendLockCommand(t *testing.T) {
	pub := &fakePublisher{}
	guard := &fakeGuard{}
	c := bridge.NewCommander(pub, guard, 1)

	cmd := lock.Command{
		CommandID:  "cmd-1",
		LockID:     "lock_front",
		Action:     lock.ActionUnlock,
		Method:     lock.MethodPincode,
		Actor:      "alice",
		Credential: lock.PINCredential{PIN: "4821"},
	}
	if err := c.SendLockCommand(context.Background(), cmd); err != nil {
		t.Fatalf("SendLockCommand() error = %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	if got := pub.messages[0].topic; got != "home/lock/lock_front/cmd" {
		t.Errorf("topic = %q, want home/lock/lock_front/cmd", got)
	}

	var decoded map[string]any
	if err := json.Unmarshal(pub.messages[0].payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded["action"] != "unlock" || decoded["method"] != "PINCODE" || decoded["actor"] != "alice" {
		t.Errorf("payload fields = %v, want unlock/PINCODE/alice", decoded)
	}
	cred, ok := decoded["credential"].(map[string]any)
	if !ok || cred["pin"] != "4821" {
		t.Errorf("credential = %v, want pin 4821", decoded["credential"])
	}
	if guard.successes != 1 || guard.failures != 0 {
		t.Errorf("guard saw %d/%d success/failure, want 1/0", guard.successes, guard.failures)
	}
}

func TestCommander_SendAutoAdjust(t *testing.T) {
	pub := &fakePublisher{}
	c := bridge.NewCommander(pub, &fakeGuard{}, 0)

	if err := c.SendAutoAdjust(context.Background(), "light_room1", 28.5); err != nil {
		t.Fatalf("SendAutoAdjust() error = %v", err)
	}

	if got := pub.messages[0].topic; got != "home/lighting/light_room1/auto_adjust" {
		t.Errorf("topic = %q, want home/lighting/light_room1/auto_adjust", got)
	}
	var decoded map[string]any
	json.Unmarshal(pub.messages[0].payload, &decoded)
	if decoded["room_brightness"] != 28.5 {
		t.Errorf("room_brightness = %v, want 28.5", decoded["room_brightness"])
	}
}

func TestCommander_SendDeviceControl(t *testing.T) {
	pub := &fakePublisher{}
	c := bridge.NewCommander(pub, &fakeGuard{}, 1)

	err := c.SendDeviceControl(context.Background(), state.KindLight, "light_room1", map[string]any{
		"power":      true,
		"brightness": 60,
	})
	if err != nil {
		t.Fatalf("SendDeviceControl() error = %v", err)
	}
	if got := pub.messages[0].topic; got != "home/lighting/light_room1/cmd" {
		t.Errorf("topic = %q, want home/lighting/light_room1/cmd", got)
	}

	if err := c.SendDeviceControl(context.Background(), "toaster", "t1", nil); err == nil {
		t.Error("SendDeviceControl() should reject unknown kinds")
	}
}

func TestCommander_SendAlarmTest(t *testing.T) {
	pub := &fakePublisher{}
	c := bridge.NewCommander(pub, &fakeGuard{}, 1)

	if err := c.SendAlarmTest(context.Background(), "alarm_hall", true); err != nil {
		t.Fatalf("SendAlarmTest() error = %v", err)
	}
	if err := c.SendAlarmTest(context.Background(), "alarm_hall", false); err != nil {
		t.Fatalf("SendAlarmTest() error = %v", err)
	}

	if got := pub.messages[0].topic; got != "home/smoke_alarm/alarm_hall/cmd" {
		t.Errorf("topic = %q, want home/smoke_alarm/alarm_hall/cmd", got)
	}
	var first, second map[string]any
	json.Unmarshal(pub.messages[0].payload, &first)
	json.Unmarshal(pub.messages[1].payload, &second)
	if first["action"] != "test_start" || second["action"] != "test_stop" {
		t.Errorf("actions = %v/%v, want test_start/test_stop", first["action"], second["action"])
	}
}

func TestCommander_PublishFailureReportsToGuard(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	guard := &fakeGuard{}
	c := bridge.NewCommander(pub, guard, 1)

	err := c.SendAutoAdjust(context.Background(), "light_room1", 30)
	if err == nil {
		t.Fatal("SendAutoAdjust() error = nil, want publish failure")
	}
	if guard.failures != 1 || guard.successes != 0 {
		t.Errorf("guard saw %d/%d success/failure, want 0/1", guard.successes, guard.failures)
	}
}

func TestCommander_CancelledContext(t *testing.T) {
	pub := &fakePublisher{}
	c := bridge.NewCommander(pub, &fakeGuard{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.SendAutoAdjust(ctx, "light_room1", 30); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(pub.messages) != 0 {
		t.Error("nothing should be published after cancellation")
	}
}
