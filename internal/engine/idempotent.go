package engine

import (
	"strings"

	"github.com/lepworks/lep/internal/doc"
)

// AlreadyApplied decides whether a hunk's effect is already present in the
// text, independent of whether its anchor still resolves.
//
// This check runs before anchor resolution. When it returns true the hunk
// is skipped with no mutation and no error, which is the mechanism that
// makes whole-document reapplication safe: a second run sees every hunk's
// target state already in place and never needs the (now consumed) anchors.
func AlreadyApplied(text string, h doc.Hunk) bool {
	target := h.ContextBefore + h.Insert + h.ContextAfter
	if target != "" && strings.Contains(text, target) {
		if h.ContextBefore != "" && h.ContextAfter != "" {
			// Guard against a coincidental unordered match: some
			// occurrence of before must be the start of the full
			// before+insert+after sequence.
			if containsAnchored(text, h.ContextBefore, target) {
				return true
			}
		} else {
			return true
		}
	}

	// A pure deletion whose remove text is gone is already applied.
	if h.Insert == "" && h.Remove != "" && !strings.Contains(text, h.Remove) {
		return true
	}
	return false
}

// containsAnchored reports whether any occurrence of before begins an
// occurrence of target.
func containsAnchored(text, before, target string) bool {
	for from := 0; from <= len(text); {
		rel := strings.Index(text[from:], before)
		if rel < 0 {
			return false
		}
		at := from + rel
		if strings.HasPrefix(text[at:], target) {
			return true
		}
		from = at + 1
	}
	return false
}
