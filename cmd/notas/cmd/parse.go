package cmd

import (
	"encoding/csv"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/notas/journal"
	"github.com/rustyeddy/notas/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse documents and print their notes",
	Long: `Parse the given documents as one batch and print the compiled notes
without writing any output or moving any file.

Examples:
  notas parse nota.pdf
  notas parse --format csv a.pdf b.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var parseFormat string

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFormat, "format", "F", "org", "output format: org|csv")
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseFormat != "org" && parseFormat != "csv" {
		return fmt.Errorf("unknown format %q", parseFormat)
	}

	table, err := tickerTable()
	if err != nil {
		return fmt.Errorf("load tickers: %w", err)
	}

	b, err := pipeline.New(cfg, table, pipeline.WithLogger(logger)).Parse(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseFormat == "org" {
		fmt.Fprintln(out, journal.FormatNotesOrg(b.Notes()))
		return nil
	}

	w := csv.NewWriter(out)
	if err := w.Write(journal.Header); err != nil {
		return err
	}
	for _, r := range journal.Assemble(b.Notes()) {
		if err := w.Write(r.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
