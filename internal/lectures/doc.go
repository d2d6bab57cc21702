// Package lectures provides the SQLite-backed lecture store. It owns the
// lecture lifecycle (status transitions, progress, heartbeats) and the
// queries the pipeline, API, and analytics layers read from. All access
// goes through Store, which serializes writes and retries on SQLITE_BUSY.
package lectures
