// Package journal provides optional SQLite-backed recording of applied
// edit transactions.
//
// The journal is strictly a CLI-side audit trail: the engine itself holds
// no persistent state, and applying a document never requires a journal.
// When enabled (lep apply --journal), each invocation records one
// transactions row plus one changes row per attempted change.
//
// Inserts are idempotent: re-applying a document with the same transaction
// id leaves exactly one transactions row (ON CONFLICT DO NOTHING), which
// mirrors the engine's own reapply semantics.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
