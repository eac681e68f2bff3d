package textio

import (
	"fmt"
	"os"
)

// FileText is the decoded content of one file plus its detected EOL style
// and the raw bytes the decode came from (used for preimage hashing).
type FileText struct {
	Text  string
	Style Style
	Raw   []byte
}

// ReadFile reads and decodes a file, classifying its line-ending style.
func ReadFile(path string, codec *Codec) (*FileText, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FileText{
		Text:  text,
		Style: DetectStyle(text),
		Raw:   raw,
	}, nil
}

// WriteFile reshapes text to the target EOL style, encodes it, and writes
// it atomically.
func WriteFile(path, text string, style Style, codec *Codec) error {
	shaped := ApplyStyle(text, style)
	data, err := codec.Encode(shaped)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return AtomicWriteFile(path, data, 0o644)
}
