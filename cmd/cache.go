package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/journal-metrics/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage table snapshots",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored table snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		st, err := cache.Open(c.CacheDir)
		if err != nil {
			return err
		}
		defer st.Close()
		n, err := st.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d snapshot(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}
