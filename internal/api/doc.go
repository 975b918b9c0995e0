// Package api implements the HTTP REST API and WebSocket server for Hearth.
//
// This package provides:
//   - REST endpoints for device state reads, lock commands, lighting
//     control, and alarm history
//   - WebSocket hub for real-time state change broadcasts
//   - JWT bearer authentication; the token subject becomes the command actor
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between user interfaces and the in-memory device
// state store. Commands flow from the API through the MQTT command bridge
// to devices; state changes flow back through the reconciler into the
// store, whose subscription feed is broadcast to WebSocket clients.
//
// # Graceful Degradation
//
// The server operates without MQTT — reads and WebSocket connections
// work, only device commands fail. This enables testing and partial
// operation.
package api
