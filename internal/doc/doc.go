// Package doc provides the wire types for LEP/v1 edit documents.
//
// This package contains the document model, the fenced-envelope stripper,
// JSON decoding, schema validation, and content hashing. All other internal
// packages import doc; doc imports nothing internal. This keeps the wire
// format the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - A document is immutable once parsed; the engine never mutates it
//   - All JSON tags use snake_case
//   - Op is a closed enum; an unknown op is a decode error, never a no-op
package doc
