package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/utils"
)

var journalsJSON bool

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List the journals in the spreadsheet",
	Args:  cobra.NoArgs,
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
		out := cmd.OutOrStdout()
		if journalsJSON {
			b, err := utils.PrettyJSON(map[string]interface{}{"column": entity, "journals": names})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if len(names) == 0 {
			fmt.Fprintln(out, s.printer.Sprintf(i18n.NoJournals))
			return nil
		}
		for _, n := range names {
			fmt.Fprintf(out, "- %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalsCmd)
	journalsCmd.Flags().BoolVar(&journalsJSON, "json", false, "print JSON instead of a list")
}
