package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lepworks/lep/internal/engine"
	"github.com/lepworks/lep/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	TxID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled transactions",
		Long: `List transactions recorded by apply --journal.

Without --tx, lists all transactions newest first. With --tx, shows the
per-change outcomes of one transaction in apply order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path")
	cmd.Flags().StringVar(&opts.TxID, "tx", "", "show one transaction's changes")
	cmd.MarkFlagRequired("journal")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		formatter.Failure("IO_ERROR", err.Error(), engine.ExitIO)
		return WrapExitError(engine.ExitIO, "", err)
	}
	defer j.Close()

	ctx := context.Background()

	if opts.TxID != "" {
		changes, err := j.Changes(ctx, opts.TxID)
		if err != nil {
			formatter.Failure("IO_ERROR", err.Error(), engine.ExitIO)
			return WrapExitError(engine.ExitIO, "", err)
		}
		if formatter.Format == "json" {
			return json.NewEncoder(formatter.Writer).Encode(changes)
		}
		for _, c := range changes {
			line := fmt.Sprintf("%3d  %-8s %-9s %s", c.Index, c.Op, c.Outcome, c.Path)
			if c.Detail != "" {
				line += "  (" + c.Detail + ")"
			}
			fmt.Fprintln(formatter.Writer, line)
		}
		return nil
	}

	txs, err := j.Transactions(ctx)
	if err != nil {
		formatter.Failure("IO_ERROR", err.Error(), engine.ExitIO)
		return WrapExitError(engine.ExitIO, "", err)
	}
	if formatter.Format == "json" {
		return json.NewEncoder(formatter.Writer).Encode(txs)
	}
	for _, t := range txs {
		mode := "applied"
		if t.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  exit=%d  %s\n", t.StartedAt, mode, t.ExitCode, t.ID)
	}
	return nil
}
