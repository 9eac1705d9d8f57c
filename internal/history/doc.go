// Package history persists per-file upload outcomes in SQLite as an
// append-only audit ledger.
//
// Rows are keyed by the run ID stamped on each batch. The ledger is written
// when enabled in configuration and never consulted during a run; the
// in-memory batch report remains authoritative.
package history
