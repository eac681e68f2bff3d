package engine

import "strings"

// Span is the located region of file text a hunk's remove occupies.
// Start == End denotes a pure insertion point.
type Span struct {
	Start int
	End   int
}

// ResolveAnchor locates the unique span a hunk should replace, using a
// context ladder. First match wins, scanning leftmost-first with restart:
//
//  1. before + after: for each occurrence of before, find remove at or
//     after before's end and require after to begin immediately following
//     remove's end
//  2. before only: same scan without the after constraint
//  3. after only: find remove and require after immediately following
//  4. no context: first literal occurrence of remove
//
// The ladder exists because machine-generated patches may supply partial
// or stale context; maximal context is preferred when available, but a
// degraded match still finds the intended edit point.
func ResolveAnchor(text, before, remove, after string) (Span, bool) {
	switch {
	case before != "" && after != "":
		return scanWithBefore(text, before, remove, after)
	case before != "":
		return scanWithBefore(text, before, remove, "")
	case after != "":
		return scanWithAfter(text, remove, after)
	default:
		idx := strings.Index(text, remove)
		if idx < 0 {
			return Span{}, false
		}
		return Span{Start: idx, End: idx + len(remove)}, true
	}
}

// scanWithBefore walks occurrences of before; for each, it takes the first
// occurrence of remove at or after before's end and checks the optional
// after constraint. On constraint failure it restarts at the next before
// occurrence.
func scanWithBefore(text, before, remove, after string) (Span, bool) {
	for from := 0; from <= len(text); {
		rel := strings.Index(text[from:], before)
		if rel < 0 {
			return Span{}, false
		}
		bStart := from + rel
		bEnd := bStart + len(before)

		if remove == "" {
			// Pure insertion point immediately after before.
			if after == "" || strings.HasPrefix(text[bEnd:], after) {
				return Span{Start: bEnd, End: bEnd}, true
			}
		} else if rel2 := strings.Index(text[bEnd:], remove); rel2 >= 0 {
			rStart := bEnd + rel2
			rEnd := rStart + len(remove)
			if after == "" || strings.HasPrefix(text[rEnd:], after) {
				return Span{Start: rStart, End: rEnd}, true
			}
		}

		from = bStart + 1
	}
	return Span{}, false
}

// scanWithAfter walks occurrences of remove and requires after to begin
// immediately following each candidate's end.
func scanWithAfter(text, remove, after string) (Span, bool) {
	if remove == "" {
		// Pure insertion point immediately preceding after.
		idx := strings.Index(text, after)
		if idx < 0 {
			return Span{}, false
		}
		return Span{Start: idx, End: idx}, true
	}
	for from := 0; from <= len(text); {
		rel := strings.Index(text[from:], remove)
		if rel < 0 {
			return Span{}, false
		}
		rStart := from + rel
		rEnd := rStart + len(remove)
		if strings.HasPrefix(text[rEnd:], after) {
			return Span{Start: rStart, End: rEnd}, true
		}
		from = rStart + 1
	}
	return Span{}, false
}
