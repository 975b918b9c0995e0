package mqtt

import (
	"fmt"
	"strings"
)

// Topic grammar for device traffic.
//
// Devices publish and subscribe under a flat scheme:
//
//	home/{kind}/{device_id}/state        retained state snapshots (device -> core)
//	home/{kind}/{device_id}/event        one-shot events (device -> core)
//	home/{kind}/{device_id}/cmd          control commands (core -> device)
//	home/lighting/{device_id}/auto_adjust ambient samples for auto mode (core -> device)
//
// {kind} is the device category segment: lighting, lock, smoke_alarm, climate.
const (
	// TopicPrefixHome is the base for all device topics.
	TopicPrefixHome = "home"

	// TopicPrefixSystem is the base for hub system topics.
	TopicPrefixSystem = "home/hub"

	// Leaf segments.
	LeafState      = "state"
	LeafEvent      = "event"
	LeafCommand    = "cmd"
	LeafAutoAdjust = "auto_adjust"
)

// Topics provides builders for Hearth MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.DeviceCommand("lock", "FRONT_DOOR")
//	// Returns: "home/lock/FRONT_DOOR/cmd"
type Topics struct{}

// DeviceState returns the retained state topic for a device.
//
// Example: home/lighting/light_room1/state
func (Topics) DeviceState(kind, deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefixHome, kind, deviceID, LeafState)
}

// DeviceEvent returns the event topic for a device.
//
// Example: home/smoke_alarm/smoke_kitchen/event
func (Topics) DeviceEvent(kind, deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefixHome, kind, deviceID, LeafEvent)
}

// DeviceCommand returns the command topic for a device.
//
// Example: home/lock/FRONT_DOOR/cmd
func (Topics) DeviceCommand(kind, deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefixHome, kind, deviceID, LeafCommand)
}

// LightingAutoAdjust returns the ambient-sample topic for a light.
//
// Example: home/lighting/light_room1/auto_adjust
func (Topics) LightingAutoAdjust(deviceID string) string {
	return fmt.Sprintf("%s/lighting/%s/%s", TopicPrefixHome, deviceID, LeafAutoAdjust)
}

// SystemStatus returns the hub status topic (LWT and online announcements).
//
// Example: home/hub/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceStates returns a pattern matching state updates from every device.
//
// Pattern: home/+/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/+/+/%s", TopicPrefixHome, LeafState)
}

// AllDeviceEvents returns a pattern matching events from every device.
//
// Pattern: home/+/+/event
func (Topics) AllDeviceEvents() string {
	return fmt.Sprintf("%s/+/+/%s", TopicPrefixHome, LeafEvent)
}

// ParsedTopic holds the segments of a device topic.
type ParsedTopic struct {
	Kind     string
	DeviceID string
	Leaf     string
}

// ParseDeviceTopic splits a home/{kind}/{device_id}/{leaf} topic into its
// segments. The hub's own system topics do not parse as device topics.
func ParseDeviceTopic(topic string) (ParsedTopic, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefixHome {
		return ParsedTopic{}, fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return ParsedTopic{}, fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
		}
	}
	return ParsedTopic{
		Kind:     parts[1],
		DeviceID: parts[2],
		Leaf:     parts[3],
	}, nil
}
