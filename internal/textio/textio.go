// Package textio provides EOL-aware, encoding-aware text file I/O.
//
// Reads classify a file's line-ending style alongside decoding it with the
// configured text encoding. Writes go through a temp-file-then-rename path
// with fsync, so a reader can never observe a partially written file.
package textio

import (
	"fmt"
	"strings"
)

// Style is a file's detected line-ending style.
type Style int

const (
	StyleLF Style = iota
	StyleCRLF
)

// String returns the policy name of the style.
func (s Style) String() string {
	if s == StyleCRLF {
		return "crlf"
	}
	return "lf"
}

// DetectStyle classifies text as CRLF if any \r\n sequence exists and the
// text does not end in a lone \r, else LF.
func DetectStyle(text string) Style {
	if !strings.Contains(text, "\r\n") {
		return StyleLF
	}
	if strings.HasSuffix(text, "\r") && !strings.HasSuffix(text, "\r\n") {
		return StyleLF
	}
	return StyleCRLF
}

// NormalizeLF converts all line endings in text to \n.
func NormalizeLF(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ApplyStyle normalizes text to \n line endings and re-expands them to the
// target style.
func ApplyStyle(text string, style Style) string {
	text = NormalizeLF(text)
	if style == StyleCRLF {
		return strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}

// ParseStyle converts a wire eol name into a Style.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "lf":
		return StyleLF, nil
	case "crlf":
		return StyleCRLF, nil
	}
	return StyleLF, fmt.Errorf("unknown eol style %q", name)
}
