package bridge

import "github.com/hearth-home/hearth-core/internal/state"

// Wire kind segments used in topic paths.
const (
	segmentLighting   = "lighting"
	segmentLock       = "lock"
	segmentSmokeAlarm = "smoke_alarm"
	segmentClimate    = "climate"
)

// kindFromSegment maps a topic kind segment to the core device kind.
func kindFromSegment(segment string) (state.Kind, bool) {
	switch segment {
	case segmentLighting:
		return state.KindLight, true
	case segmentLock:
		return state.KindLock, true
	case segmentSmokeAlarm:
		return state.KindAlarm, true
	case segmentClimate:
		return state.KindClimate, true
	default:
		return "", false
	}
}

// segmentFromKind maps a core device kind to its topic segment.
func segmentFromKind(kind state.Kind) (string, bool) {
	switch kind {
	case state.KindLight:
		return segmentLighting, true
	case state.KindLock:
		return segmentLock, true
	case state.KindAlarm:
		return segmentSmokeAlarm, true
	case state.KindClimate:
		return segmentClimate, true
	default:
		return "", false
	}
}
