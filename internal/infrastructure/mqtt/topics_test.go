package mqtt

import (
	"errors"
	"testing"
)

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "DeviceState",
			builder: func() string {
				return Topics{}.DeviceState("lighting", "light_room1")
			},
			expected: "home/lighting/light_room1/state",
		},
		{
			name: "DeviceEvent",
			builder: func() string {
				return Topics{}.DeviceEvent("smoke_alarm", "smoke_kitchen")
			},
			expected: "home/smoke_alarm/smoke_kitchen/event",
		},
		{
			name: "DeviceCommand",
			builder: func() string {
				return Topics{}.DeviceCommand("lock", "FRONT_DOOR")
			},
			expected: "home/lock/FRONT_DOOR/cmd",
		},
		{
			name: "LightingAutoAdjust",
			builder: func() string {
				return Topics{}.LightingAutoAdjust("light_room2")
			},
			expected: "home/lighting/light_room2/auto_adjust",
		},
		{
			name: "SystemStatus",
			builder: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "home/hub/status",
		},
		{
			name: "AllDeviceStates",
			builder: func() string {
				return Topics{}.AllDeviceStates()
			},
			expected: "home/+/+/state",
		},
		{
			name: "AllDeviceEvents",
			builder: func() string {
				return Topics{}.AllDeviceEvents()
			},
			expected: "home/+/+/event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}

func TestParseDeviceTopic(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		want    ParsedTopic
		wantErr bool
	}{
		{
			name:  "state topic",
			topic: "home/lighting/light_room1/state",
			want:  ParsedTopic{Kind: "lighting", DeviceID: "light_room1", Leaf: "state"},
		},
		{
			name:  "event topic",
			topic: "home/smoke_alarm/smoke_kitchen/event",
			want:  ParsedTopic{Kind: "smoke_alarm", DeviceID: "smoke_kitchen", Leaf: "event"},
		},
		{
			name:  "command topic",
			topic: "home/lock/FRONT_DOOR/cmd",
			want:  ParsedTopic{Kind: "lock", DeviceID: "FRONT_DOOR", Leaf: "cmd"},
		},
		{
			name:    "wrong prefix",
			topic:   "office/lock/FRONT_DOOR/cmd",
			wantErr: true,
		},
		{
			name:    "too few segments",
			topic:   "home/hub/status",
			wantErr: true,
		},
		{
			name:    "too many segments",
			topic:   "home/lock/FRONT_DOOR/cmd/extra",
			wantErr: true,
		},
		{
			name:    "empty segment",
			topic:   "home//light_room1/state",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeviceTopic(tt.topic)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTopic) {
					t.Errorf("ParseDeviceTopic(%q) error = %v, want ErrInvalidTopic", tt.topic, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeviceTopic(%q) error = %v", tt.topic, err)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceTopic(%q) = %+v, want %+v", tt.topic, got, tt.want)
			}
		})
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on uninitialised client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}
