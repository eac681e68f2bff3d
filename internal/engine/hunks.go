package engine

import (
	"log/slog"
	"strings"

	"github.com/lepworks/lep/internal/doc"
)

// ApplyHunks applies an ordered list of hunks to one file's text.
//
// Hunks are never reordered: hunk i+1 always sees the output of hunk i.
// For each hunk, in order:
//  1. skip if its effect is already present (AlreadyApplied)
//  2. skip if remove == insert and that text is present (trivial no-op)
//  3. resolve the anchor against the current text; fail the whole file if
//     it does not resolve
//  4. skip if the resolved span already equals insert
//  5. otherwise splice insert in place of the span
//
// A failed hunk aborts the file's patch; the caller discards the
// in-memory text, so no partial-hunk state reaches disk.
func ApplyHunks(path, text string, hunks []doc.Hunk) (string, error) {
	for i, h := range hunks {
		if AlreadyApplied(text, h) {
			slog.Debug("hunk already applied, skipping", "path", path, "hunk", i)
			continue
		}
		if h.Remove != "" && h.Remove == h.Insert && strings.Contains(text, h.Remove) {
			slog.Debug("hunk is a trivial no-op, skipping", "path", path, "hunk", i)
			continue
		}

		span, ok := ResolveAnchor(text, h.ContextBefore, h.Remove, h.ContextAfter)
		if !ok {
			return "", newError(CodeAnchorNotFound, path,
				"hunk %d: no anchor found for remove %q", i, truncate(h.Remove, 80))
		}

		if text[span.Start:span.End] == h.Insert {
			continue
		}
		text = text[:span.Start] + h.Insert + text[span.End:]
	}
	return text, nil
}

// truncate shortens s for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
