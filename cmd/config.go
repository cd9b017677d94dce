package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/journal-metrics/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set jmetrics configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_file: %s\n", cfg.DataFile)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		if cfg.CSVDelimiter != "" {
			fmt.Fprintf(out, "csv_delimiter: %q\n", cfg.CSVDelimiter)
		}
		fmt.Fprintf(out, "entity_columns: %s\n", strings.Join(cfg.EntityColumns, ", "))
		for _, m := range cfg.Metrics {
			fmt.Fprintf(out, "metric: %s (%s)", m.Name, m.Color)
			if len(m.Aliases) > 0 {
				fmt.Fprintf(out, " aliases: %s", strings.Join(m.Aliases, ", "))
			}
			fmt.Fprintln(out)
		}
		if len(cfg.PlaceholderColumns) > 0 {
			fmt.Fprintf(out, "placeholder_columns: %s\n", strings.Join(cfg.PlaceholderColumns, ", "))
		}
		fmt.Fprintf(out, "locale: %s\n", cfg.Locale)
		if cfg.MissingLabel != "" {
			fmt.Fprintf(out, "missing_label: %s\n", cfg.MissingLabel)
		}
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "cache_dir: %s\n", cfg.CacheDir)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.LogFile != "" {
			fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_file":
			cfg.DataFile = val
		case "sheet_name":
			cfg.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		case "csv_delimiter":
			cfg.CSVDelimiter = val
			if _, err := cfg.Delimiter(); err != nil {
				return err
			}
		case "entity_columns":
			cfg.EntityColumns = splitList(val)
		case "placeholder_columns":
			cfg.PlaceholderColumns = splitList(val)
		case "locale":
			switch strings.ToLower(val) {
			case "de", "german", "deutsch":
				cfg.Locale = "de"
			case "en", "english":
				cfg.Locale = "en"
			default:
				return fmt.Errorf("invalid locale: %s (use de or en)", val)
			}
		case "missing_label":
			cfg.MissingLabel = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "cache_dir":
			cfg.CacheDir = val
		case "log_level":
			cfg.LogLevel = val
		case "log_file":
			cfg.LogFile = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
