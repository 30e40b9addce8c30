// Package sqlite provides SQLite-backed persistence for conversation
// sessions. The schema is managed by embedded SQL migrations applied at
// startup.
package sqlite
