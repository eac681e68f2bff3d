package textio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Codec decodes and encodes file bytes for one named text encoding.
// The zero value (and any UTF-8 spelling) is a validating passthrough.
type Codec struct {
	name string
	enc  encoding.Encoding // nil means UTF-8 passthrough
}

// LookupCodec resolves an encoding name from the IANA registry.
// An empty name defaults to UTF-8. Unknown names are an error: the caller
// treats that as an invalid document, not an I/O failure.
func LookupCodec(name string) (*Codec, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return &Codec{name: "utf-8"}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return &Codec{name: name, enc: enc}, nil
}

// Name returns the encoding name the codec was resolved from.
func (c *Codec) Name() string {
	if c.name == "" {
		return "utf-8"
	}
	return c.name
}

// Decode converts raw file bytes to a string.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8 in file content")
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", c.Name(), err)
	}
	return string(out), nil
}

// Encode converts text back to raw file bytes.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", c.Name(), err)
	}
	return out, nil
}
