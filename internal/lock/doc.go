// Package lock validates and dispatches lock/unlock commands.
//
// Each dispatch runs a short state machine:
//
//	Idle → Validating → Ready    (command built and handed to the sender)
//	                  → Rejected (method precondition failed, nothing sent)
//
// Validation happens entirely locally, before any network traffic, so the
// UI can surface "pin too short" without a round-trip. The dispatcher
// guarantees it never emits a partially-filled command; what the remote
// lock does with a well-formed command is out of its hands.
//
// Credential form data is cleared after every dispatch, on the rejected
// path as much as the ready path. A failed attempt must not leave a
// secret sitting in memory for the next caller to reuse.
package lock
