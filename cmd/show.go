package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/utils"
)

var (
	showJSON       bool
	showOutputPath string
)

var showCmd = &cobra.Command{
	Use:   "show [journal]",
	Short: "Show the cleaned metrics of one journal (default: the first)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		t, entity, err := s.table(cmd.Context())
		if err != nil {
			return err
		}
		names := t.Entities(entity)
		if len(names) == 0 {
			return errors.New(s.printer.Sprintf(i18n.NoJournals))
		}
		journal := names[0]
		if len(args) == 1 {
			journal = args[0]
		}
		rows, err := t.RowsWhere(entity, journal)
		if err != nil {
			return errors.New(s.printer.Explain(err, journal))
		}
		d := analysis.CleanRows(t.Columns, rows, s.cleanOptions())

		var content []byte
		if showJSON {
			content, err = utils.PrettyJSON(map[string]interface{}{"journal": journal, "table": d})
			if err != nil {
				return err
			}
		} else {
			content = []byte(d.Markdown(s.printer.Sprintf(i18n.DataFor, journal)))
		}
		return emit(cmd, showOutputPath, content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON instead of Markdown")
	showCmd.Flags().StringVarP(&showOutputPath, "output", "o", "", "optional path to write the output")
}

// emit writes content to path when set, otherwise to the command's stdout.
func emit(cmd *cobra.Command, path string, content []byte) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(content))
		return nil
	}
	if err := utils.SafeWriteFile(path, content); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
