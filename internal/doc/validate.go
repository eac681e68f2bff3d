package doc

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// Validation error codes (D100-D199).
const (
	ErrBadEnvelope  = "D100" // malformed fence or JSON syntax
	ErrSchema       = "D101" // document does not satisfy the LEP/v1 schema
	ErrBadProtocol  = "D102" // protocol tag is not LEP/v1
	ErrNoChanges    = "D103" // changes list missing or empty
	ErrMissingBody  = "D104" // op-specific payload missing
	ErrStrayBody    = "D105" // payload present for the wrong op
	ErrEmptyHunk    = "D106" // hunk with every field empty
	ErrBadEOL       = "D107" // defaults.eol not preserve|lf|crlf
	ErrBadEncoding  = "D108" // defaults.encoding not a known encoding name
	ErrEmptyPath    = "D109" // change with empty path
	ErrEmptyNewPath = "D110" // rename with empty new_path
)

// ValidationError represents a document validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

// schema compiles the embedded CUE schema once and returns the #Document
// definition. Compilation cannot fail at runtime: the schema is embedded
// and covered by tests.
func schema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		schemaValue = v.LookupPath(cue.ParsePath("#Document"))
	})
	return schemaValue
}

// ValidateJSON checks a JSON payload against the LEP/v1 CUE schema.
// Returns all violations found (does not fail-fast).
func ValidateJSON(payload []byte) []ValidationError {
	expr, err := cuejson.Extract("document.json", payload)
	if err != nil {
		return []ValidationError{{
			Field:   "document",
			Message: err.Error(),
			Code:    ErrBadEnvelope,
		}}
	}

	sch := schema()
	unified := sch.Context().BuildExpr(expr).Unify(sch)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		var out []ValidationError
		for _, e := range cueerrors.Errors(err) {
			field := "document"
			if p := e.Path(); len(p) > 0 {
				field = pathString(p)
			}
			out = append(out, ValidationError{
				Field:   field,
				Message: e.Error(),
				Code:    ErrSchema,
			})
		}
		return out
	}
	return nil
}

func pathString(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

// Validate performs the structural checks the CUE schema cannot express:
// op/payload pairing and the empty-hunk rejection. Returns all errors found.
func (d *Document) Validate() []ValidationError {
	var errs []ValidationError

	if d.Protocol != Protocol {
		errs = append(errs, ValidationError{
			Field:   "protocol",
			Message: fmt.Sprintf("unsupported protocol %q (want %q)", d.Protocol, Protocol),
			Code:    ErrBadProtocol,
		})
	}
	if len(d.Changes) == 0 {
		errs = append(errs, ValidationError{
			Field:   "changes",
			Message: "changes list must be non-empty",
			Code:    ErrNoChanges,
		})
	}
	if d.Defaults.EOL != "" && !ValidEOLPolicies[d.Defaults.EOL] {
		errs = append(errs, ValidationError{
			Field:   "defaults.eol",
			Message: fmt.Sprintf("invalid eol policy %q", d.Defaults.EOL),
			Code:    ErrBadEOL,
		})
	}

	for i, ch := range d.Changes {
		errs = append(errs, ch.validate(i)...)
	}
	return errs
}

func (c *Change) validate(idx int) []ValidationError {
	var errs []ValidationError
	field := func(suffix string) string {
		return fmt.Sprintf("changes[%d].%s", idx, suffix)
	}

	if c.Path == "" {
		errs = append(errs, ValidationError{
			Field:   field("path"),
			Message: "path must be non-empty",
			Code:    ErrEmptyPath,
		})
	}

	// Exactly the payload matching the op must be present.
	need := func(present bool, name string) {
		if !present {
			errs = append(errs, ValidationError{
				Field:   field(name),
				Message: fmt.Sprintf("op %q requires %s", c.Op, name),
				Code:    ErrMissingBody,
			})
		}
	}
	stray := func(present bool, name string) {
		if present {
			errs = append(errs, ValidationError{
				Field:   field(name),
				Message: fmt.Sprintf("%s is not valid for op %q", name, c.Op),
				Code:    ErrStrayBody,
			})
		}
	}

	switch c.Op {
	case OpPatch:
		need(c.Patch != nil && len(c.Patch.Hunks) > 0, "patch.hunks")
		stray(c.Replace != nil, "replace")
		stray(c.Create != nil, "create")
		stray(c.Rename != nil, "rename")
		if c.Patch != nil {
			for j, h := range c.Patch.Hunks {
				if h.IsEmpty() {
					errs = append(errs, ValidationError{
						Field:   field(fmt.Sprintf("patch.hunks[%d]", j)),
						Message: "hunk has no context, remove, or insert",
						Code:    ErrEmptyHunk,
					})
				}
			}
		}
	case OpReplace:
		need(c.Replace != nil, "replace.full_text")
		stray(c.Patch != nil, "patch")
		stray(c.Create != nil, "create")
		stray(c.Rename != nil, "rename")
	case OpCreate:
		need(c.Create != nil, "create.full_text")
		stray(c.Patch != nil, "patch")
		stray(c.Replace != nil, "replace")
		stray(c.Rename != nil, "rename")
	case OpDelete:
		stray(c.Patch != nil, "patch")
		stray(c.Replace != nil, "replace")
		stray(c.Create != nil, "create")
		stray(c.Rename != nil, "rename")
	case OpRename:
		need(c.Rename != nil && c.Rename.NewPath != "", "rename.new_path")
		stray(c.Patch != nil, "patch")
		stray(c.Replace != nil, "replace")
		stray(c.Create != nil, "create")
	}

	return errs
}
