package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/notas/config"
	"github.com/rustyeddy/notas/internal/logging"
	"github.com/rustyeddy/notas/ticker"
)

var (
	cfgFile  string
	logLevel string

	// Set by the root pre-run for every command.
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notas",
	Short: "Import B3 brokerage notes into a trade journal",
	Long: `Notas reads brokerage notes (notas de corretagem) issued by Rico and
Clear, extracts every cash and futures trade, spreads the note's fees and
withheld income tax over its trades and writes the result as CSV, XLSX,
SQLite and Org-mode files.

Documents are read from the inbox folder and moved to the processed folder
once every output has been written. Settings come from an optional config
file and NOTAS_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger, err = logging.Setup(cmd.ErrOrStderr(), cfg.Log)
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file, YAML or JSON (default: built-in settings)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level: debug|info|warn|error")
}

// tickerTable returns the configured ticker table or the embedded one.
func tickerTable() (*ticker.Table, error) {
	if cfg.Tickers.File == "" {
		return ticker.Default(), nil
	}
	return ticker.LoadFile(cfg.Tickers.File)
}
