package state

import (
	"math"
	"strconv"
	"strings"
)

// bound is an inclusive numeric range for one attribute.
type bound struct {
	min    float64
	max    float64
	hasMax bool
}

// numericBounds defines, per kind, which attributes are numeric and what
// range they are clamped to. Attributes not listed here pass through
// untouched (booleans, mode strings, nested structures).
var numericBounds = map[Kind]map[string]bound{
	KindLight: {
		"brightness":      {min: 0, max: 100, hasMax: true},
		"color_temp":      {min: 2700, max: 6500, hasMax: true},
		"room_brightness": {min: 0},
	},
	KindLock: {
		"battery": {min: 0, max: 100, hasMax: true},
	},
	KindAlarm: {
		"smoke_level": {min: 0},
		"battery":     {min: 0, max: 100, hasMax: true},
	},
	KindClimate: {
		"current_temp": {min: -40, max: 60, hasMax: true},
		"target_temp":  {min: 5, max: 35, hasMax: true},
		"humidity":     {min: 0, max: 100, hasMax: true},
	},
}

// normalizeAttributes coerces and clamps the payload attributes for a kind.
//
// Numeric attributes arriving as strings (a habit of some firmware) are
// parsed to float64. Non-finite values (NaN, ±Inf) and unparseable strings
// fall back to the previous stored value when one exists, otherwise the
// attribute is dropped. In-range guarantees come from clamping, never from
// rejection: a battery of 130 becomes 100, not an error.
//
// prev may be nil for a first observation.
func normalizeAttributes(kind Kind, payload Attributes, prev Attributes) Attributes {
	bounds := numericBounds[kind]
	out := make(Attributes, len(payload))

	for name, raw := range payload {
		b, numeric := bounds[name]
		if !numeric {
			out[name] = raw
			continue
		}

		f, ok := toFloat(raw)
		if !ok {
			if prev != nil {
				if old, exists := prev[name]; exists {
					out[name] = old
				}
			}
			continue
		}

		out[name] = clamp(f, b)
	}

	return out
}

// toFloat coerces a payload value to a finite float64.
func toFloat(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp(f float64, b bound) float64 {
	if f < b.min {
		return b.min
	}
	if b.hasMax && f > b.max {
		return b.max
	}
	return f
}
