package cli

import (
	"fmt"
	"strings"
)

// RenderUnifiedDiff creates a simple unified diff for one planned change.
//
// Uses a single changed region (first to last differing line) with up to
// three lines of surrounding context. Good enough for previewing
// machine-generated edits; this is not a general diff implementation.
func RenderUnifiedDiff(path, op, before, after string) string {
	oldLines := splitLines(before)
	newLines := splitLines(after)

	var diff strings.Builder
	diff.WriteString(fmt.Sprintf("--- %s (%s)\n", path, "current"))
	diff.WriteString(fmt.Sprintf("+++ %s (%s)\n", path, op))

	region, changed := findChangedRegion(oldLines, newLines)
	if !changed {
		diff.WriteString(" (no content change)\n")
		return diff.String()
	}

	diff.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
		region.oldStart+1, region.oldCount,
		region.newStart+1, region.newCount))

	contextStart := max(0, region.oldStart-3)
	for i := contextStart; i < region.oldStart; i++ {
		diff.WriteString(" " + oldLines[i] + "\n")
	}
	for i := region.oldStart; i < region.oldStart+region.oldCount; i++ {
		if i < len(oldLines) {
			diff.WriteString("-" + oldLines[i] + "\n")
		}
	}
	for i := region.newStart; i < region.newStart+region.newCount; i++ {
		if i < len(newLines) {
			diff.WriteString("+" + newLines[i] + "\n")
		}
	}
	contextEnd := min(len(oldLines), region.oldStart+region.oldCount+3)
	for i := region.oldStart + region.oldCount; i < contextEnd; i++ {
		diff.WriteString(" " + oldLines[i] + "\n")
	}

	return diff.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// changeRegion represents the single region of change in the diff.
type changeRegion struct {
	oldStart int
	oldCount int
	newStart int
	newCount int
}

// findChangedRegion identifies the first-to-last differing range between
// old and new content.
func findChangedRegion(oldLines, newLines []string) (changeRegion, bool) {
	minLen := min(len(oldLines), len(newLines))

	firstDiff := -1
	for i := 0; i < minLen; i++ {
		if oldLines[i] != newLines[i] {
			firstDiff = i
			break
		}
	}
	if firstDiff == -1 {
		if len(oldLines) == len(newLines) {
			return changeRegion{}, false
		}
		firstDiff = minLen
	}

	oldIdx := len(oldLines) - 1
	newIdx := len(newLines) - 1
	for oldIdx >= firstDiff && newIdx >= firstDiff {
		if oldLines[oldIdx] != newLines[newIdx] {
			break
		}
		oldIdx--
		newIdx--
	}

	return changeRegion{
		oldStart: firstDiff,
		oldCount: oldIdx - firstDiff + 1,
		newStart: firstDiff,
		newCount: newIdx - firstDiff + 1,
	}, true
}
