package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/textio"
)

// Options configures one engine invocation.
type Options struct {
	// DryRun performs identical analysis but zero filesystem mutation.
	// The document's own dry_run flag is OR-ed with this.
	DryRun bool

	// Force bypasses preimage checks.
	Force bool

	// EOL overrides the document's defaults.eol policy when non-empty.
	EOL doc.EOLPolicy

	// Encoding overrides the document's defaults.encoding when non-empty.
	Encoding string

	// Status receives human-readable progress lines. nil discards them.
	Status io.Writer

	// Plan captures before/after content for every content-bearing
	// change into the Report, for diff previews. Implies extra reads
	// but no extra writes.
	Plan bool
}

// PlannedChange is the captured effect of one content-bearing change,
// populated only under Options.Plan.
type PlannedChange struct {
	Op     string `json:"op"`
	Path   string `json:"path"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Outcome is the terminal state of one change.
type Outcome int

const (
	// OutcomeApplied means the change mutated the tree (or would have,
	// under dry-run).
	OutcomeApplied Outcome = iota

	// OutcomeSkipped means the change's effect was already present and
	// nothing was written.
	OutcomeSkipped

	// OutcomeFailed means the change aborted the transaction.
	OutcomeFailed
)

// String returns the journal/wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ChangeResult records how one change ended.
type ChangeResult struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// Report summarizes one engine invocation for the caller (and the journal).
type Report struct {
	TransactionID string          `json:"transaction_id,omitempty"`
	DryRun        bool            `json:"dry_run"`
	Results       []ChangeResult  `json:"results"`
	Planned       []PlannedChange `json:"planned,omitempty"`
}

// Engine applies one document against one repository root.
type Engine struct {
	root    string
	dryRun  bool
	force   bool
	plan    bool
	eol     doc.EOLPolicy
	codec   *textio.Codec
	status  io.Writer
	planned []PlannedChange
}

// New builds an engine for a parsed document. It resolves the effective
// EOL policy and encoding (options beat document defaults) and validates
// the encoding name up front, before any filesystem access.
func New(root string, d *doc.Document, opts Options) (*Engine, error) {
	eol := d.Defaults.EOL
	if opts.EOL != "" {
		eol = opts.EOL
	}
	if eol == "" {
		eol = doc.EOLPreserve
	}
	if !doc.ValidEOLPolicies[eol] {
		return nil, newError(CodeInvalidDocument, "", "invalid eol policy %q", eol)
	}

	encName := d.Defaults.Encoding
	if opts.Encoding != "" {
		encName = opts.Encoding
	}
	codec, err := textio.LookupCodec(encName)
	if err != nil {
		return nil, &Error{Code: CodeInvalidDocument, Err: err}
	}

	status := opts.Status
	if status == nil {
		status = io.Discard
	}

	return &Engine{
		root:   root,
		dryRun: opts.DryRun || d.DryRun,
		force:  opts.Force,
		plan:   opts.Plan,
		eol:    eol,
		codec:  codec,
		status: status,
	}, nil
}

// Apply is the transaction driver: it iterates the document's changes in
// array order, stopping at the first unrecoverable error. Changes after
// the failing one are never attempted; changes before it have already
// been durably written. The driver never retries - retry is the caller's
// responsibility, which idempotent reapply makes safe.
//
// The returned Report covers every change that was attempted, including
// the failing one. The error is the first failure, unmodified.
func (e *Engine) Apply(ctx context.Context, d *doc.Document) (*Report, error) {
	report := &Report{
		TransactionID: d.TransactionID,
		DryRun:        e.dryRun,
	}

	if d.TransactionID != "" {
		e.statusf("Transaction: %s", d.TransactionID)
	}
	if e.dryRun {
		e.statusf("Mode: dry-run (no changes will be written)")
	}

	for i, ch := range d.Changes {
		if err := ctx.Err(); err != nil {
			return report, wrapIO(ch.Path, err)
		}

		res, err := e.applyChange(ch)
		res.Index = i
		report.Results = append(report.Results, res)
		if err != nil {
			slog.Error("change failed",
				"index", i, "op", ch.Op.String(), "path", ch.Path, "error", err)
			report.Planned = e.planned
			return report, err
		}
		slog.Debug("change complete",
			"index", i, "op", ch.Op.String(), "path", ch.Path, "outcome", res.Outcome)
	}

	e.statusf("Done.")
	report.Planned = e.planned
	return report, nil
}

// recordPlan captures one content-bearing change under Options.Plan.
func (e *Engine) recordPlan(op, path, before, after string) {
	if !e.plan {
		return
	}
	e.planned = append(e.planned, PlannedChange{Op: op, Path: path, Before: before, After: after})
}

func (e *Engine) statusf(format string, args ...any) {
	fmt.Fprintf(e.status, format+"\n", args...)
}
