// Package state holds the authoritative in-memory view of every device.
//
// Two update sources compete to refresh this view:
//
//	poll  — snapshots fetched from the remote device-state API on a timer
//	push  — MQTT state messages generated by devices as things happen
//
// The Store is a plain keyed cache; the Reconciler decides whether an
// incoming update is allowed to touch it. The merge rule is defined once,
// here, regardless of which transport delivered the update:
//
//	              ┌────────────┐
//	 poll ───────►│            │     accepted      ┌───────┐
//	              │ Reconciler ├──────────────────►│ Store │──► subscribers
//	 push ───────►│            │   (stale polls    └───────┘    (WS, tsdb)
//	              └────────────┘     dropped)
//
// Push updates always apply: they are generated synchronously with the
// action that caused them, so they are causally fresher than any poll.
// Poll snapshots apply only if they are not older than the record's last
// update (minus a small clock-skew tolerance); stale polls are discarded
// silently. The outcome is deterministic regardless of arrival order.
//
// Commands never write here directly. A lock or lighting command takes
// effect only once the device reports it back as a push or poll update,
// keeping the device the single serialiser of truth.
package state
