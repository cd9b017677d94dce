package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/journal-metrics/internal/config"
)

var (
	// Global flags; when set they override the config file and environment.
	cfgFile        string
	debug          bool
	flagDataFile   string
	flagSheetName  string
	flagSheetIndex int
	flagLocale     string
	flagLogLevel   string
	noCache        bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// cfgErr keeps the load failure for commands that need a config.
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "jmetrics",
	Short: "Journal metrics dashboard: browse and chart journal spreadsheets",
	Long: `jmetrics reads a journal spreadsheet (XLSX or CSV), shows the cleaned metrics of a
single journal and draws per-metric bar charts across all journals, either in the
terminal or as a web dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.jmetrics/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVar(&flagDataFile, "data", "", "spreadsheet to read (overrides config)")
	f.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name (overrides config)")
	f.IntVar(&flagSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index, used if no sheet name is set (overrides config)")
	f.StringVar(&flagLocale, "locale", "", "label language: de | en (overrides config)")
	f.StringVar(&flagLogLevel, "log-level", "", "debug | info | warn | error (overrides config)")
	f.BoolVar(&noCache, "no-cache", false, "do not read or write table snapshots")
}

func loadConfig() {
	cfg, cfgErr = nil, nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: config commands can still repair the file
		cfgErr = err
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataFile != "" {
		cfg.DataFile = flagDataFile
	}
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}
	if f.Changed("sheet-index") && flagSheetIndex > 0 {
		cfg.SheetIndex = flagSheetIndex
	}
	if f.Changed("locale") && flagLocale != "" {
		cfg.Locale = flagLocale
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

// requireConfig returns the loaded, validated configuration.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, cfgErr
		}
		return nil, fmt.Errorf("no configuration loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
