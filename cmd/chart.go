package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/utils"
)

var (
	chartJSON       bool
	chartWidth      int
	chartOutputPath string
)

type chartResult struct {
	Metric  string           `json:"metric"`
	Color   string           `json:"color,omitempty"`
	Series  *analysis.Series `json:"series,omitempty"`
	Message string           `json:"message,omitempty"`
}

var chartCmd = &cobra.Command{
	Use:   "chart [metric...]",
	Short: "Draw per-journal bar charts of metrics (default: all configured metrics)",
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
		metrics := s.cfg.Metrics
		if len(args) > 0 {
			metrics = make([]analysis.MetricSpec, 0, len(args))
			for _, a := range args {
				metrics = append(metrics, analysis.LookupMetric(s.cfg.Metrics, a))
			}
		}

		var results []chartResult
		var b strings.Builder
		for _, ch := range analysis.Overview(t, entity, metrics) {
			r := chartResult{Metric: ch.Spec.Name, Color: ch.Spec.Color, Series: ch.Series}
			if ch.Err != nil {
				r.Message = s.printer.Explain(ch.Err, ch.Spec.Name)
				b.WriteString("ℹ " + r.Message + "\n\n")
			} else {
				b.WriteString(ch.Series.TextChart(s.printer.Sprintf(i18n.OverviewTitle, ch.Spec.Name), chartWidth))
				b.WriteString("\n")
			}
			results = append(results, r)
		}

		content := []byte(strings.TrimRight(b.String(), "\n"))
		if chartJSON {
			content, err = utils.PrettyJSON(results)
			if err != nil {
				return err
			}
		}
		return emit(cmd, chartOutputPath, content)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the series as JSON")
	chartCmd.Flags().IntVar(&chartWidth, "width", 40, "maximum bar width in characters")
	chartCmd.Flags().StringVarP(&chartOutputPath, "output", "o", "", "optional path to write the output")
}
