package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/notas/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import every note in the inbox",
	Long: `Read every PDF and text dump in the inbox, compile the notes, write the
configured outputs and move the documents to the processed folder.

Nothing is written or moved when any document fails to parse.

Example:
  notas run -c notas.yaml`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	table, err := tickerTable()
	if err != nil {
		return fmt.Errorf("load tickers: %w", err)
	}

	res, err := pipeline.New(cfg, table, pipeline.WithLogger(logger)).Run(cmd.Context())
	if err != nil {
		return err
	}

	summary, err := res.Run.FormatOrg()
	if err != nil {
		return fmt.Errorf("format run: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
