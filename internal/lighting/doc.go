// Package lighting drives the ambient-light auto-adjust loop.
//
// The controller does not compute brightness percentages. It samples a
// simulated ambient lux level around a per-site target (scaled up during
// the day window, down at night, with bounded sensor jitter) and pushes
// the sample to lights that have auto_mode enabled. Converging brightness
// toward the sample is the device's job; the result comes back as a push
// update through the normal reconciliation path.
//
// The controller never writes to the state store. If it did, the store
// would show a brightness the device never confirmed.
package lighting
