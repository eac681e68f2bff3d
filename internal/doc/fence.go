package doc

import (
	"fmt"
	"strings"
)

// StripFence removes a fenced-code-block envelope from raw document text.
//
// A document is accepted either as raw JSON or wrapped in a single fence:
// the first non-blank line opens with ``` (optionally tagged with a language
// name), the last non-blank line is a matching closing fence, and the
// interior is the JSON payload. An opening fence with no matching closing
// fence is a hard parse error.
func StripFence(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return raw, nil
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("fenced document has no closing fence")
	}

	last := strings.TrimSpace(lines[len(lines)-1])
	if last != "```" {
		return "", fmt.Errorf("fenced document has no closing fence")
	}

	return strings.Join(lines[1:len(lines)-1], "\n"), nil
}
