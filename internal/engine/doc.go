// Package engine applies LEP/v1 edit documents to a file tree.
//
// The engine is the heart of lep - it takes a parsed document plus a
// repository root, dispatches each change to its op handler, and maps the
// outcome to the process exit-code contract.
//
// ARCHITECTURE:
//
// Single-Threaded Transaction Driver:
// The engine processes all changes synchronously in one goroutine. This
// ensures:
// - Changes apply in document order
// - Within one file's patch, hunk i+1 sees hunk i's output
// - No cross-path lock discipline is needed
//
// Change Processing Flow:
// 1. Apply() iterates document changes in array order
// 2. Every op re-validates its path against the repository root first
// 3. patch ops run idempotency detection, then the anchor ladder
// 4. Mutations go through atomic temp-file-then-rename writes
// 5. The first failing change aborts the loop; earlier changes stay on disk
//
// Per-file atomicity only: a multi-file document is not all-or-nothing
// across files, and the driver never retries. Retry is the caller's job,
// which is exactly what idempotency detection makes safe - re-applying an
// already-applied document succeeds without touching disk, even when an
// anchor no longer resolves.
//
// The only persistent state is the file tree itself. The engine holds no
// database, no cache, and no locks; two invocations racing on overlapping
// paths have undefined outcomes (last writer wins at the rename step).
package engine
