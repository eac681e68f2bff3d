package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                  `json:"valid"`
	Errors []doc.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate an edit document without applying it",
		Long: `Validate an LEP/v1 edit document without touching the filesystem.

Checks the fenced envelope, the JSON payload against the schema, and the
op/payload pairing rules. Reports every violation found, not just the
first. Exit 0 when valid, 1 otherwise.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, docPath string, cmd *cobra.Command) error {
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

	verrs := doc.Check(raw)
	if len(verrs) == 0 {
		return formatter.Success("", "Document is valid.")
	}

	if formatter.Format == "json" {
		json.NewEncoder(formatter.Writer).Encode(ValidationResult{Valid: false, Errors: verrs})
	} else {
		for _, ve := range verrs {
			fmt.Fprintf(formatter.GetErrWriter(), "%s\n", ve.Error())
		}
	}
	return NewExitError(engine.ExitInvalid, fmt.Sprintf("%d validation error(s)", len(verrs)))
}
