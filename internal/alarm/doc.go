// Package alarm keeps the append-only log of smoke alarm state transitions.
//
// Events arrive from push messages and poll backfill, which means the same
// transition can be delivered more than once and out of order. The log
// absorbs duplicates idempotently and accepts historical backfill without
// letting an old event displace the "latest" pointer the UI badges read.
//
// The in-memory Log answers queries; the SQLite repository behind it keeps
// the audit trail across restarts.
package alarm
