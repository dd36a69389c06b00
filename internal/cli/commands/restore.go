package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/spf13/cobra"
)

// RestoreOptions holds options for the restore command.
type RestoreOptions struct {
	File     string
	Explain  bool
	NoFormat bool
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand() *cobra.Command {
	opts := &RestoreOptions{}
	cmd := &cobra.Command{
		Use:   "restore [log text]",
		Short: "Rebuild executable SQL from log output",
		Long: `Find the SQL statement and its parameter line in log output, substitute
the parameters into the "?" placeholders and print the formatted result.

Input is taken from the arguments, from --file, or from stdin when it is
piped. When several statements are present the first one is used.`,
		Example: `  # Restore from the clipboard (macOS)
  pbpaste | sqlrestore restore

  # Restore from a log file and show the parameter mapping
  sqlrestore restore --file app.log --explain

  # Output as JSON
  sqlrestore restore -o json < app.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", `Read log text from file ("-" for stdin)`)
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Show how parameters map to placeholders")
	cmd.Flags().BoolVar(&opts.NoFormat, "no-format", false, "Print the substituted statement without formatting")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string, opts *RestoreOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	raw, err := readInput(cmd, args, opts.File)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Service.Restore(cmd.Context(), raw)
	if err != nil {
		return err
	}

	return printResult(cmdCtx.Renderer, res, opts)
}

// printResult renders a restore result in the renderer's mode.
func printResult(r *output.Renderer, res *restore.Result, opts *RestoreOptions) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}

	if n := res.Placeholders(); n != len(res.Params) {
		r.Warn(fmt.Sprintf("statement has %d placeholders but %d parameters", n, len(res.Params)))
	}

	sql := res.SQL
	if opts.NoFormat {
		sql = res.Substituted
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Header("Restored SQL")
	}
	r.SQL(sql)

	if opts.Explain {
		r.Println("")
		if markdown {
			r.Header("Parameters")
		}
		renderParams(r.Writer(), res, markdown)
	}
	return nil
}
