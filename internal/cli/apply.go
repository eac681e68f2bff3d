package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lepworks/lep/internal/config"
	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/engine"
	"github.com/lepworks/lep/internal/journal"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Root     string
	DryRun   bool
	Force    bool
	Quiet    bool
	Journal  string
	Config   string
	EOL      string
	Encoding string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <document>",
		Short: "Apply an edit document to the repository",
		Long: `Apply an LEP/v1 edit document to a file tree.

The document is read from a file, or from stdin when the argument is "-".
It may be bare JSON or a single fenced code block wrapping JSON.

Changes apply in document order; the first failure stops the run and later
changes are never attempted. Changes already written stay on disk - there
is no cross-file rollback. Re-applying an already-applied document is a
successful no-op, so retrying after fixing a conflict is always safe.

Note: a create op whose target already exists prints a notice but still
overwrites the file.

Exit codes: 0 success, 1 invalid document, 2 conflict/anchor/missing file,
3 I/O or permission error.

Example:
  lep apply changes.json --root ./src
  generate-edits | lep apply - --dry-run --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd, false)
		},
	}

	addApplyFlags(cmd, opts)
	return cmd
}

func addApplyFlags(cmd *cobra.Command, opts *ApplyOptions) {
	cmd.Flags().StringVar(&opts.Root, "root", ".", "repository root all paths resolve under")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "analyze without writing")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "bypass preimage checks")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress progress lines")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite path to record the transaction into")
	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (default: lep.yaml in the root)")
	cmd.Flags().StringVar(&opts.EOL, "eol", "", "line-ending policy override (preserve|lf|crlf)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "text encoding override")
}

// runApply is shared by apply and preview; preview forces dry-run and
// plan capture.
func runApply(opts *ApplyOptions, docPath string, cmd *cobra.Command, preview bool) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	raw, err := ReadDocumentSource(docPath, cmd.InOrStdin())
	if err != nil {
		formatter.Failure("INVALID_DOCUMENT", err.Error(), engine.ExitInvalid)
		return WrapExitError(engine.ExitInvalid, "", err)
	}

	d, err := doc.Parse(raw)
	if err != nil {
		formatter.Failure(errorTag(err), err.Error(), engine.ExitInvalid)
		return WrapExitError(engine.ExitInvalid, "", err)
	}

	cfg, err := config.Discover(opts.Config, opts.Root)
	if err != nil {
		formatter.Failure("IO_ERROR", err.Error(), engine.ExitIO)
		return WrapExitError(engine.ExitIO, "", err)
	}

	eol := opts.EOL
	if eol == "" {
		eol = cfg.EOL
	}
	encoding := opts.Encoding
	if encoding == "" {
		encoding = cfg.Encoding
	}
	journalPath := opts.Journal
	if journalPath == "" {
		journalPath = cfg.Journal
	}
	quiet := opts.Quiet || cfg.Quiet

	// Status lines go to stdout in text mode and stderr in JSON mode,
	// so machine output stays parseable.
	var status io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		status = cmd.ErrOrStderr()
	}
	if quiet {
		status = io.Discard
	}

	eng, err := engine.New(opts.Root, d, engine.Options{
		DryRun:   opts.DryRun || preview,
		Force:    opts.Force,
		EOL:      doc.EOLPolicy(eol),
		Encoding: encoding,
		Status:   status,
		Plan:     preview,
	})
	if err != nil {
		exit := engine.ExitCode(err)
		formatter.Failure(errorTag(err), err.Error(), exit)
		return WrapExitError(exit, "", err)
	}

	report, applyErr := eng.Apply(context.Background(), d)
	exit := engine.ExitCode(applyErr)

	if journalPath != "" {
		txID := journal.TransactionID(d)
		if jerr := recordJournal(journalPath, txID, report, exit); jerr != nil {
			slog.Error("journal write failed", "path", journalPath, "error", jerr)
			if applyErr == nil {
				formatter.Failure("IO_ERROR", jerr.Error(), engine.ExitIO)
				return WrapExitError(engine.ExitIO, "journal", jerr)
			}
		}
	}

	if applyErr != nil {
		formatter.Failure(errorTag(applyErr), applyErr.Error(), exit)
		return WrapExitError(exit, "", applyErr)
	}

	if preview {
		return renderPreview(formatter, report)
	}
	return formatter.Success(report.TransactionID, report)
}

func recordJournal(path, txID string, report *engine.Report, exitCode int) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()
	return j.Record(context.Background(), txID, report, exitCode)
}

// errorTag extracts the bracketed tag for the error stream.
func errorTag(err error) string {
	var ee *engine.Error
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	var ve doc.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return "ERROR"
}
