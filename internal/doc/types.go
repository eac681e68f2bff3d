package doc

import (
	"encoding/json"
	"fmt"
)

// Protocol is the document protocol tag this engine accepts.
// Any other value is a hard parse error.
const Protocol = "LEP/v1"

// Op identifies the kind of change to perform on a path.
// It is a closed enum: decoding an unknown op string fails, so a misspelled
// op is a parse error rather than a silent no-op.
type Op int

const (
	OpPatch Op = iota
	OpReplace
	OpCreate
	OpDelete
	OpRename
)

var opNames = map[Op]string{
	OpPatch:   "patch",
	OpReplace: "replace",
	OpCreate:  "create",
	OpDelete:  "delete",
	OpRename:  "rename",
}

var opValues = map[string]Op{
	"patch":   OpPatch,
	"replace": OpReplace,
	"create":  OpCreate,
	"delete":  OpDelete,
	"rename":  OpRename,
}

// String returns the wire name of the op.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp converts a wire string into an Op.
func ParseOp(s string) (Op, error) {
	op, ok := opValues[s]
	if !ok {
		return 0, fmt.Errorf("unknown op %q", s)
	}
	return op, nil
}

// MarshalJSON implements json.Marshaler.
func (o Op) MarshalJSON() ([]byte, error) {
	name, ok := opNames[o]
	if !ok {
		return nil, fmt.Errorf("invalid op value %d", int(o))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Op) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("op must be a string: %w", err)
	}
	op, err := ParseOp(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// EOLPolicy controls how line endings are written back to disk.
type EOLPolicy string

const (
	// EOLPreserve keeps each file's detected line-ending style
	// (new files default to LF).
	EOLPreserve EOLPolicy = "preserve"

	// EOLLF forces Unix line endings on write.
	EOLLF EOLPolicy = "lf"

	// EOLCRLF forces Windows line endings on write.
	EOLCRLF EOLPolicy = "crlf"
)

// ValidEOLPolicies defines the allowed eol values.
var ValidEOLPolicies = map[EOLPolicy]bool{
	EOLPreserve: true,
	EOLLF:       true,
	EOLCRLF:     true,
}

// Document is one parsed LEP/v1 edit document.
type Document struct {
	Protocol      string   `json:"protocol"`
	TransactionID string   `json:"transaction_id,omitempty"`
	DryRun        bool     `json:"dry_run,omitempty"`
	Defaults      Defaults `json:"defaults,omitempty"`
	Changes       []Change `json:"changes"`
}

// Defaults carries document-wide write policy.
type Defaults struct {
	EOL      EOLPolicy `json:"eol,omitempty"`
	Encoding string    `json:"encoding,omitempty"`
}

// Change describes one file-level edit.
type Change struct {
	Path     string      `json:"path"`
	Op       Op          `json:"op"`
	Preimage *Preimage   `json:"preimage,omitempty"`
	Patch    *PatchSpec  `json:"patch,omitempty"`
	Replace  *FullText   `json:"replace,omitempty"`
	Create   *FullText   `json:"create,omitempty"`
	Rename   *RenameSpec `json:"rename,omitempty"`
}

// Preimage is a caller-supplied fingerprint of the file's last known state,
// used to detect drift before patching.
type Preimage struct {
	Exists *bool  `json:"exists,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	Size   *int64 `json:"size,omitempty"`
}

// PatchSpec holds the ordered hunks for op=patch.
type PatchSpec struct {
	Hunks []Hunk `json:"hunks"`
}

// FullText is the payload for op=replace and op=create.
type FullText struct {
	FullText string `json:"full_text"`
}

// RenameSpec is the payload for op=rename.
type RenameSpec struct {
	NewPath string `json:"new_path"`
}

// Hunk is one localized edit: optional surrounding context plus a
// remove/insert pair. Absent fields default to empty strings.
type Hunk struct {
	ContextBefore string `json:"context_before,omitempty"`
	Remove        string `json:"remove,omitempty"`
	Insert        string `json:"insert,omitempty"`
	ContextAfter  string `json:"context_after,omitempty"`
}

// IsEmpty reports whether every field of the hunk is empty.
// Such a hunk is rejected at validation time.
func (h Hunk) IsEmpty() bool {
	return h.ContextBefore == "" && h.Remove == "" && h.Insert == "" && h.ContextAfter == ""
}
