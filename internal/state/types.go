package state

import "time"

// Kind classifies a device by its attribute schema.
type Kind string

// Device kinds.
const (
	KindClimate Kind = "climate"
	KindLock    Kind = "lock"
	KindLight   Kind = "light"
	KindAlarm   Kind = "alarm"
)

// Source identifies how an update reached the core.
type Source string

// Update sources.
const (
	// SourcePoll marks a snapshot fetched from the remote API on a timer.
	SourcePoll Source = "poll"

	// SourcePush marks an asynchronous state message from the device itself.
	SourcePush Source = "push"
)

// Attributes maps attribute names to typed values (bool, float64, or string).
type Attributes map[string]any

// Record is the cached representation of one device's last-known attributes.
type Record struct {
	DeviceID         string     `json:"device_id"`
	Kind             Kind       `json:"kind"`
	Attributes       Attributes `json:"attributes"`
	LastUpdateSource Source     `json:"last_update_source"`
	LastUpdateAt     time.Time  `json:"last_update_at"`

	// Version is a monotonically increasing counter assigned locally on
	// every accepted upsert. It never decreases and is not supplied by
	// the remote system.
	Version uint64 `json:"version"`
}

// DeepCopy creates a complete independent copy of the Record.
// The attribute map is cloned so modifications to the copy do not
// affect the stored original. This is essential for cache isolation.
func (r *Record) DeepCopy() *Record {
	if r == nil {
		return nil
	}

	cpy := *r
	cpy.Attributes = deepCopyAttributes(r.Attributes)
	return &cpy
}

// Envelope is a transient carrier for one incoming update. It is created
// on receipt, consumed synchronously by the Reconciler, and discarded.
type Envelope struct {
	DeviceID   string
	Kind       Kind
	Source     Source
	Payload    Attributes
	ReceivedAt time.Time
}

// deepCopyAttributes creates a deep copy of an attribute map.
// Nested maps and slices are recursively copied.
func deepCopyAttributes(m Attributes) Attributes {
	if m == nil {
		return nil
	}
	cpy := make(Attributes, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(deepCopyAttributes(val))
	case Attributes:
		return deepCopyAttributes(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, float64, etc.) are safe to copy by value.
		return v
	}
}
