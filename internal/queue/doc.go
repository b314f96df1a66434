// Package queue persists asset items and their lifecycle in SQLite.
//
// An item enters as queued, is classified, then processed by the organizer
// stage into one of the terminal states (completed, failed, skipped). Items
// waiting on a human decision sit in awaiting_root or awaiting_conflict until
// resolved. Every terminal transition appends exactly one history record in
// the same transaction that lands the terminal status.
package queue
