package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lepworks/lep/internal/engine"
)

// NewPreviewCommand creates the preview command: a dry-run apply that
// renders per-file unified diffs of what apply would change.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview <document>",
		Short: "Show the diffs an apply would produce, without writing",
		Long: `Preview an LEP/v1 edit document against the repository.

Runs the identical anchor and idempotency analysis as apply, performs zero
filesystem mutation, and prints a unified diff per affected file. Exit
codes match apply, so preview doubles as a cheap conflict probe.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd, true)
		},
	}

	addApplyFlags(cmd, opts)
	return cmd
}

// renderPreview prints the captured plan in the configured format.
func renderPreview(f *OutputFormatter, report *engine.Report) error {
	if f.Format == "json" {
		return f.Success(report.TransactionID, report)
	}
	for _, p := range report.Planned {
		fmt.Fprint(f.Writer, RenderUnifiedDiff(p.Path, p.Op, p.Before, p.After))
	}
	return nil
}
