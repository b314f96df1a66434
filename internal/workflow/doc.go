// Package workflow advances queue items through the configured processing
// stages.
//
// The Manager polls the queue for actionable items and feeds them into the
// registered stage handlers (classifier, organizer), capturing failure
// metadata and landing terminal statuses with their history records. Items
// are processed strictly one at a time; suspended items (awaiting a root or
// conflict decision) re-enter the lane once the decision is recorded on the
// store.
//
// Add new lifecycle stages by registering a handler for a trigger status and
// teaching the queue status enums about the transition; this package is the
// authoritative home for that coordination logic.
package workflow
