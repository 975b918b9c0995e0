package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hearth-home/hearth-core/internal/state"
)

// Request limits.
const (
	maxResponseBytes = 4 << 20 // 4 MiB
)

// Domain-specific errors for the remote client.
var (
	// ErrRemoteStatus is returned when the API answers with a non-2xx code.
	ErrRemoteStatus = errors.New("remote: unexpected status")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("remote: not found")
)

// Device is the wire shape of one device in the remote API's listing.
type Device struct {
	DeviceID   string           `json:"device_id"`
	Kind       string           `json:"kind"`
	Attributes state.Attributes `json:"attributes"`
	Timestamp  string           `json:"timestamp"`
}

// AlarmEvent is the wire shape of one alarm history entry.
type AlarmEvent struct {
	AlarmID    string   `json:"alarm_id"`
	EventType  string   `json:"event_type"`
	Detail     string   `json:"detail"`
	SmokeLevel *float64 `json:"smoke_level"`
	Timestamp  string   `json:"timestamp"`
}

// Client is a thin HTTP client for the remote device-state API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL. timeout bounds each
// request end to end.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchDevices returns the full device listing.
func (c *Client) FetchDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.getJSON(ctx, "/api/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FetchDevice returns the current state of one device.
func (c *Client) FetchDevice(ctx context.Context, deviceID string) (*Device, error) {
	var device Device
	if err := c.getJSON(ctx, "/api/devices/"+url.PathEscape(deviceID), &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// FetchAlarmEvents returns up to limit history entries for one alarm,
// newest first.
func (c *Client) FetchAlarmEvents(ctx context.Context, alarmID string, limit int) ([]AlarmEvent, error) {
	path := "/api/alarms/" + url.PathEscape(alarmID) + "/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var events []AlarmEvent
	if err := c.getJSON(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// getJSON performs one GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("remote: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %d from %s", ErrRemoteStatus, resp.StatusCode, path)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("remote: decoding response from %s: %w", path, err)
	}
	return nil
}

// ParseKind maps a remote kind string onto the core device kind. The API
// uses the same names as the MQTT topic segments.
func ParseKind(kind string) (state.Kind, bool) {
	switch kind {
	case "lighting", "light":
		return state.KindLight, true
	case "lock":
		return state.KindLock, true
	case "smoke_alarm", "alarm":
		return state.KindAlarm, true
	case "climate":
		return state.KindClimate, true
	default:
		return "", false
	}
}

// ParseTimestamp converts a wire timestamp to time.Time, falling back to
// the supplied receipt time when absent or malformed.
func ParseTimestamp(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}
