// Package bridge connects the MQTT broker to the core.
//
// Ingress subscribes to the device topic tree and turns incoming state
// and event messages into reconciler envelopes and alarm log entries.
// Commander goes the other way, publishing lock commands, lighting
// control, and ambient samples onto per-device command topics. Every
// outbound publish reports its outcome to the connectivity guard.
//
// The wire uses different kind segments than the core (lighting vs
// light, smoke_alarm vs alarm); the mapping lives here and nowhere else.
package bridge
