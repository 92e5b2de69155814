package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/internal/cli/output"
)

var codesOutput string

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the directory bind result codes",
	Long: `List every directory result code the directory backend understands.

Only code 0 accepts the credentials. Every other listed code rejects them;
a code not in this list aborts the attempt with an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(codesOutput)
		if err != nil {
			return err
		}
		return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(output.NewCodeList())
	},
}

func init() {
	codesCmd.Flags().StringVarP(&codesOutput, "output", "o", "table", "Output format (table|json|yaml)")
}
