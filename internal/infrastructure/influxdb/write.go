package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceAttributes records the numeric and boolean attributes of a
// reconciled device state as a single point.
//
// Strings and nested values are skipped; booleans are recorded as 0/1 so
// lock and power transitions can be graphed alongside sensor values.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WriteDeviceAttributes("smoke_kitchen", "alarm",
//	    map[string]any{"smoke_level": 12.4, "battery": 87.0, "alarm_active": false})
func (c *Client) WriteDeviceAttributes(deviceID, kind string, attrs map[string]any) {
	if !c.IsConnected() {
		return
	}

	fields := make(map[string]interface{}, len(attrs))
	for name, val := range attrs {
		switch v := val.(type) {
		case float64:
			fields[name] = v
		case int:
			fields[name] = float64(v)
		case bool:
			boolVal := 0.0
			if v {
				boolVal = 1.0
			}
			fields[name] = boolVal
		}
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"device_state",
		map[string]string{
			"device_id": deviceID,
			"kind":      kind,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAmbientSample records an ambient-brightness sample generated by the
// lighting auto-adjust controller.
func (c *Client) WriteAmbientSample(lightID string, lux float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"ambient_light",
		map[string]string{
			"device_id": lightID,
		},
		map[string]interface{}{
			"room_brightness": lux,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
