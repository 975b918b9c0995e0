package alarm

import "time"

// EventType classifies an alarm state transition.
type EventType string

// Alarm event types, matching the remote system's wire values.
const (
	EventTriggered   EventType = "ALARM_TRIGGERED"
	EventCleared     EventType = "ALARM_CLEARED"
	EventLowBattery  EventType = "LOW_BATTERY"
	EventTestStarted EventType = "TEST_STARTED"
	EventTestStopped EventType = "TEST_STOPPED"
	EventInit        EventType = "INIT"
)

// validEventTypes is the accepted set; anything else is rejected at append.
var validEventTypes = map[EventType]struct{}{
	EventTriggered:   {},
	EventCleared:     {},
	EventLowBattery:  {},
	EventTestStarted: {},
	EventTestStopped: {},
	EventInit:        {},
}

// Event is one immutable alarm state transition.
type Event struct {
	AlarmID   string    `json:"alarm_id"`
	EventType EventType `json:"event_type"`
	Detail    string    `json:"detail,omitempty"`

	// SmokeLevel is set for trigger/clear events, absent otherwise.
	SmokeLevel *float64 `json:"smoke_level,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// key identifies an event for duplicate detection.
type key struct {
	alarmID   string
	eventType EventType
	timestamp int64 // unix nanoseconds
}

func (e Event) key() key {
	return key{alarmID: e.AlarmID, eventType: e.EventType, timestamp: e.Timestamp.UnixNano()}
}
