package commands

import (
	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/spf13/cobra"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	File string
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}
	cmd := &cobra.Command{
		Use:   "format [sql]",
		Short: "Pretty-print a SQL statement",
		Long: `Format SQL with the configured dialect, keyword case and indentation.

Input that cannot be parsed is printed unchanged.`,
		Example: `  sqlrestore format "select a, b from t where id = 1"
  sqlrestore format --keyword-case lower --file query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", `Read SQL from file ("-" for stdin)`)

	return cmd
}

func runFormat(cmd *cobra.Command, args []string, opts *FormatOptions) error {
	cmdCtx := NewCommandContextWithoutHistory(cmd)

	sql, err := readInput(cmd, args, opts.File)
	if err != nil {
		return err
	}

	formatted, err := cmdCtx.Service.Format(cmd.Context(), sql)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]string{"sql": formatted})
	}
	r.SQL(formatted)
	return nil
}
