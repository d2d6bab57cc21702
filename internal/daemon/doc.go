// Package daemon coordinates the long-running lectern process.
//
// It wires configuration, the lecture store, and the workflow manager into a
// single lifecycle with flock-based locking to prevent multiple instances.
// The HTTP server and ingest watcher run alongside the daemon; startup and
// shutdown ordering lives in daemonrun.
//
// Keep orchestration logic here: individual pipeline stages live in their
// respective packages while the daemon focuses on startup, shutdown, and
// single-instance enforcement.
package daemon
