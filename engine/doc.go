// Package engine is the raw boundary to the embedded SQLite library
// (modernc.org/sqlite/lib, the pure-Go transpilation of the C amalgamation).
// It exposes the primitive interface the typed layer is built on:
//   - DB: sqlite3_open_v2 / sqlite3_close and connection-level accessors
//   - Stmt: sqlite3_prepare_v2 / bind / step / column / reset / finalize
//
// The package intentionally keeps a thin surface: no type coercion decisions,
// no statement state tracking beyond what the C API itself maintains. Those
// belong to package db.
//
// A DB and the Stmts prepared on it are not safe for concurrent use; callers
// must serialize access (one goroutine at a time, or external locking).
package engine
