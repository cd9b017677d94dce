package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		addr := s.cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		// Warm the table so a broken spreadsheet shows up in the log at startup.
		if _, err := s.src.Table(cmd.Context()); err != nil {
			s.log.Warn("initial load failed", zap.String("path", s.src.Path()), zap.Error(err))
		}

		srv := server.New(s.src, server.Options{
			Addr:          addr,
			EntityColumns: s.cfg.EntityColumns,
			Metrics:       s.cfg.Metrics,
			Clean: analysis.CleanOptions{
				MissingLabel:       s.cfg.MissingLabel,
				PlaceholderColumns: s.cfg.PlaceholderColumns,
			},
			Locale: s.cfg.Locale,
		}, s.log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
