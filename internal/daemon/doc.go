// Package daemon coordinates the long-running curator process: it owns the
// workflow manager lifecycle and uses flock-based locking to prevent multiple
// daemons from sharing one queue database.
package daemon
