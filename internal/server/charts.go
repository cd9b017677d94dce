package server

import (
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
)

// handleCharts renders one bar chart per configured metric that has data. Metrics
// without data are reported on the index page instead.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	p := s.printer(r)
	page := components.NewPage()
	page.PageTitle = p.Sprintf(i18n.OverviewHeader)

	d, err := s.dataset(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	for _, ch := range s.overview(d) {
		if ch.Err != nil {
			continue
		}
		page.AddCharts(barChart(p, ch.Spec, ch.Series))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		s.log.Error("render charts", zap.Error(err))
	}
}

// tooltipTwoDecimals shows hover values at two decimals.
const tooltipTwoDecimals = `function (p) { return p.name + ': ' + Number(p.value).toFixed(2); }`

// barChart draws the series in table order with rotated journal labels.
func barChart(p *i18n.Printer, spec analysis.MetricSpec, series *analysis.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: p.Sprintf(i18n.OverviewTitle, spec.Name)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: opts.FuncOpts(tooltipTwoDecimals)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      p.Sprintf(i18n.AxisJournal),
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.Name}),
	)
	data := make([]opts.BarData, len(series.Points))
	for i, pt := range series.Points {
		data[i] = opts.BarData{Value: pt.Value}
	}
	bar.SetXAxis(series.Labels()).
		AddSeries(spec.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}))
	return bar
}
