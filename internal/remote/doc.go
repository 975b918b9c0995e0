// Package remote polls the device-state HTTP API.
//
// Polling backs up the MQTT push channel: a missed push is corrected on
// the next poll cycle, and the poll timestamp comparison in the
// reconciler keeps a slow poll from clobbering a fresher push. Poll
// failures feed the connectivity guard; the poller itself never retries
// within a cycle, the next tick is the retry.
package remote
