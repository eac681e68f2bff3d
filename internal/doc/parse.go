package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parse turns raw document text into a validated Document.
//
// The raw text may be bare JSON or a fenced code block wrapping JSON.
// Parsing runs in three stages: envelope stripping, CUE schema validation,
// then JSON decoding plus the structural checks in Validate. The first
// stage that fails determines the returned error; all of them are
// invalid-input failures for the caller's exit-code mapping.
func Parse(raw []byte) (*Document, error) {
	payload, err := StripFence(string(raw))
	if err != nil {
		return nil, ValidationError{Field: "document", Message: err.Error(), Code: ErrBadEnvelope}
	}

	if verrs := ValidateJSON([]byte(payload)); len(verrs) > 0 {
		return nil, verrs[0]
	}

	var d Document
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := dec.Decode(&d); err != nil {
		return nil, ValidationError{Field: "document", Message: err.Error(), Code: ErrBadEnvelope}
	}

	if verrs := d.Validate(); len(verrs) > 0 {
		return nil, verrs[0]
	}
	return &d, nil
}

// Check validates raw document text and returns every violation found.
// Unlike Parse it does not fail-fast; the validate command uses it to
// report all problems in one pass.
func Check(raw []byte) []ValidationError {
	payload, err := StripFence(string(raw))
	if err != nil {
		return []ValidationError{{Field: "document", Message: err.Error(), Code: ErrBadEnvelope}}
	}

	verrs := ValidateJSON([]byte(payload))

	var d Document
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		if len(verrs) == 0 {
			verrs = append(verrs, ValidationError{Field: "document", Message: err.Error(), Code: ErrBadEnvelope})
		}
		return verrs
	}
	return append(verrs, d.Validate()...)
}

// MustParse is a test helper that panics on parse failure.
func MustParse(raw string) *Document {
	d, err := Parse([]byte(raw))
	if err != nil {
		panic(fmt.Sprintf("MustParse: %v", err))
	}
	return d
}
