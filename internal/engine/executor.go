package engine

import (
	"os"
	"path/filepath"

	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/textio"
)

// applyChange dispatches a single change record to the op-specific handler.
// The op enum is closed, so the switch is exhaustive; path validation runs
// here, once, before any handler touches the filesystem.
func (e *Engine) applyChange(ch doc.Change) (ChangeResult, error) {
	res := ChangeResult{Op: ch.Op.String(), Path: ch.Path, Outcome: OutcomeFailed.String()}

	abs, err := SafePath(e.root, ch.Path)
	if err != nil {
		res.Detail = err.Error()
		return res, err
	}

	var outcome Outcome
	var detail string
	switch ch.Op {
	case doc.OpPatch:
		outcome, detail, err = e.execPatch(abs, ch)
	case doc.OpReplace:
		outcome, detail, err = e.execReplace(abs, ch)
	case doc.OpCreate:
		outcome, detail, err = e.execCreate(abs, ch)
	case doc.OpDelete:
		outcome, detail, err = e.execDelete(abs, ch)
	case doc.OpRename:
		outcome, detail, err = e.execRename(abs, ch)
	}

	if err != nil {
		res.Detail = err.Error()
		return res, err
	}
	res.Outcome = outcome.String()
	res.Detail = detail
	return res, nil
}

// execPatch applies ordered hunks to an existing file.
func (e *Engine) execPatch(abs string, ch doc.Change) (Outcome, string, error) {
	ft, err := e.readTarget(abs, ch.Path)
	if err != nil {
		return OutcomeFailed, "", err
	}
	if ft == nil {
		return OutcomeFailed, "", newError(CodeFileNotFound, ch.Path, "patch target does not exist")
	}

	if ch.Preimage != nil && !e.force && !ch.Preimage.Matches(true, ft.Raw) {
		// Drift is forgiven when the document's full effect is already
		// present: every hunk independently already applied means this is
		// a clean idempotent re-run, not a conflict.
		if allApplied(ft.Text, ch.Patch.Hunks) {
			e.statusf("PATCH %s (already applied)", ch.Path)
			return OutcomeSkipped, "preimage drift but all hunks already applied", nil
		}
		return OutcomeFailed, "", newError(CodeConflict, ch.Path,
			"preimage mismatch: file has changed since the document was generated")
	}

	out, err := ApplyHunks(ch.Path, ft.Text, ch.Patch.Hunks)
	if err != nil {
		return OutcomeFailed, "", err
	}

	if out == ft.Text {
		e.statusf("PATCH %s (already applied)", ch.Path)
		return OutcomeSkipped, "no change needed", nil
	}

	e.statusf("PATCH %s", ch.Path)
	e.recordPlan("patch", ch.Path, ft.Text, out)
	if e.dryRun {
		return OutcomeApplied, "", nil
	}
	if err := e.writeTarget(abs, ch.Path, out, ft.Style); err != nil {
		return OutcomeFailed, "", err
	}
	return OutcomeApplied, "", nil
}

// execReplace writes full text over the target. The current file is read
// only to classify its EOL style and run the preimage check; a missing
// target is created.
func (e *Engine) execReplace(abs string, ch doc.Change) (Outcome, string, error) {
	ft, err := e.readTarget(abs, ch.Path)
	if err != nil {
		return OutcomeFailed, "", err
	}

	style := textio.StyleLF
	if ft != nil {
		if ch.Preimage != nil && !e.force && !ch.Preimage.Matches(true, ft.Raw) {
			return OutcomeFailed, "", newError(CodeConflict, ch.Path,
				"preimage mismatch: file has changed since the document was generated")
		}
		style = ft.Style
	}

	e.statusf("REPLACE %s", ch.Path)
	before := ""
	if ft != nil {
		before = ft.Text
	}
	e.recordPlan("replace", ch.Path, before, ch.Replace.FullText)
	if e.dryRun {
		return OutcomeApplied, "", nil
	}
	if err := e.ensureParent(abs, ch.Path); err != nil {
		return OutcomeFailed, "", err
	}
	if err := e.writeTarget(abs, ch.Path, ch.Replace.FullText, style); err != nil {
		return OutcomeFailed, "", err
	}
	return OutcomeApplied, "", nil
}

// execCreate writes a new file. When the target already exists this emits
// a notice but still overwrites it on a non-dry-run invocation.
func (e *Engine) execCreate(abs string, ch doc.Change) (Outcome, string, error) {
	detail := ""
	if _, err := os.Lstat(abs); err == nil {
		e.statusf("CREATE %s (already exists, overwriting)", ch.Path)
		detail = "target already existed"
	} else if !os.IsNotExist(err) {
		return OutcomeFailed, "", wrapIO(ch.Path, err)
	} else {
		e.statusf("CREATE %s", ch.Path)
	}

	if e.plan {
		before := ""
		if ft, err := e.readTarget(abs, ch.Path); err == nil && ft != nil {
			before = ft.Text
		}
		e.recordPlan("create", ch.Path, before, ch.Create.FullText)
	}

	if e.dryRun {
		return OutcomeApplied, detail, nil
	}
	if err := e.ensureParent(abs, ch.Path); err != nil {
		return OutcomeFailed, "", err
	}
	if err := e.writeTarget(abs, ch.Path, ch.Create.FullText, textio.StyleLF); err != nil {
		return OutcomeFailed, "", err
	}
	return OutcomeApplied, detail, nil
}

// execDelete removes the target; an already-absent target is a success.
func (e *Engine) execDelete(abs string, ch doc.Change) (Outcome, string, error) {
	if _, err := os.Lstat(abs); os.IsNotExist(err) {
		e.statusf("DELETE %s (already absent)", ch.Path)
		return OutcomeSkipped, "already absent", nil
	} else if err != nil {
		return OutcomeFailed, "", wrapIO(ch.Path, err)
	}

	e.statusf("DELETE %s", ch.Path)
	if e.plan {
		before := ""
		if ft, err := e.readTarget(abs, ch.Path); err == nil && ft != nil {
			before = ft.Text
		}
		e.recordPlan("delete", ch.Path, before, "")
	}
	if e.dryRun {
		return OutcomeApplied, "", nil
	}
	if err := os.Remove(abs); err != nil {
		return OutcomeFailed, "", wrapIO(ch.Path, err)
	}
	return OutcomeApplied, "", nil
}

// execRename moves the file, treating a re-run of a completed rename as a
// success and refusing to clobber a destination that still coexists with
// the source.
func (e *Engine) execRename(abs string, ch doc.Change) (Outcome, string, error) {
	dstAbs, err := SafePath(e.root, ch.Rename.NewPath)
	if err != nil {
		return OutcomeFailed, "", err
	}

	_, srcErr := os.Lstat(abs)
	_, dstErr := os.Lstat(dstAbs)
	srcExists := srcErr == nil
	dstExists := dstErr == nil

	switch {
	case !srcExists && dstExists:
		e.statusf("RENAME %s -> %s (already renamed)", ch.Path, ch.Rename.NewPath)
		return OutcomeSkipped, "already renamed", nil
	case !srcExists && !dstExists:
		return OutcomeFailed, "", newError(CodeFileNotFound, ch.Path, "rename source does not exist")
	case srcExists && dstExists:
		return OutcomeFailed, "", newError(CodeConflict, ch.Path,
			"rename destination %q already exists", ch.Rename.NewPath)
	}

	e.statusf("RENAME %s -> %s", ch.Path, ch.Rename.NewPath)
	if e.dryRun {
		return OutcomeApplied, "", nil
	}
	if err := e.ensureParent(dstAbs, ch.Rename.NewPath); err != nil {
		return OutcomeFailed, "", err
	}
	if err := os.Rename(abs, dstAbs); err != nil {
		return OutcomeFailed, "", wrapIO(ch.Path, err)
	}
	return OutcomeApplied, "", nil
}

// readTarget reads and decodes an existing file; a missing file returns
// (nil, nil). Undecodable bytes are a conflict-class failure: the file has
// drifted from what the document's generator saw.
func (e *Engine) readTarget(abs, rel string) (*textio.FileText, error) {
	ft, err := textio.ReadFile(abs, e.codec)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		if os.IsPermission(err) {
			return nil, wrapIO(rel, err)
		}
		if _, statErr := os.Lstat(abs); statErr == nil {
			return nil, &Error{Code: CodeEncoding, Path: rel, Err: err}
		}
		return nil, wrapIO(rel, err)
	}
	return ft, nil
}

// writeTarget reshapes text to the effective EOL policy and writes it
// atomically. detected is the style observed at read time; it only matters
// under the preserve policy.
func (e *Engine) writeTarget(abs, rel, text string, detected textio.Style) error {
	style := detected
	switch e.eol {
	case doc.EOLLF:
		style = textio.StyleLF
	case doc.EOLCRLF:
		style = textio.StyleCRLF
	}
	if err := textio.WriteFile(abs, text, style, e.codec); err != nil {
		return wrapIO(rel, err)
	}
	return nil
}

// ensureParent creates the target's parent directories.
func (e *Engine) ensureParent(abs, rel string) error {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return wrapIO(rel, err)
	}
	return nil
}

// allApplied reports whether every hunk is independently already applied.
func allApplied(text string, hunks []doc.Hunk) bool {
	for _, h := range hunks {
		if !AlreadyApplied(text, h) {
			return false
		}
	}
	return true
}
