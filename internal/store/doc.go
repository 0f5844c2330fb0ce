// Package store provides SQLite-backed durable storage for medicine records.
//
// The store holds a single table keyed by the medicine name:
//   - Schema: CREATE TABLE IF NOT EXISTS, applied on every Open
//   - Repository: create, get, list, update (rename-capable), delete, search
//   - Seed: three sample records inserted only into an empty table
//
// # Keys
//
// Every name that reaches the store passes through medicine.NormalizeName.
// Uniqueness is enforced by the PRIMARY KEY and checked explicitly before a
// rename, so a collision surfaces as *medicine.DuplicateKeyError rather than a
// raw constraint failure.
//
// # Errors
//
// Engine failures are wrapped in *medicine.StorageError. Nothing is logged and
// swallowed; a failed write is never reported as "no data".
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite allows a single writer
package store
