package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Inspect the ticker table",
}

var tickersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the specification patterns in match order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := tickerTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range table.Entries() {
			fmt.Fprintf(out, "%-24s %s\n", e.Code, e.Pattern)
		}
		return nil
	},
}

var tickersResolveCmd = &cobra.Command{
	Use:   "resolve <specification>...",
	Short: "Resolve note specifications to tickers",
	Long: `Resolve the asset specifications printed on a note to B3 tickers.

Example:
  notas tickers resolve "PETROBRAS PN N2" "VALE ON NM"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := tickerTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, spec := range args {
			t, err := table.Resolve(spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", spec, t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tickersCmd)
	tickersCmd.AddCommand(tickersListCmd)
	tickersCmd.AddCommand(tickersResolveCmd)
}
