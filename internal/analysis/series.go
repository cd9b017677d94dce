package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

var (
	// ErrColumnNotFound means the requested metric column is not in the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNoValidData means the column exists but no row holds a usable value.
	ErrNoValidData = errors.New("no valid data")
)

// MetricSpec names a chartable metric. Aliases cover naming variants between
// spreadsheet revisions and are tried in order after Name.
type MetricSpec struct {
	Name    string   `mapstructure:"name" yaml:"name" json:"name" validate:"required"`
	Aliases []string `mapstructure:"aliases" yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Color   string   `mapstructure:"color" yaml:"color" json:"color" validate:"required"`
}

// DefaultMetrics returns the metrics charted when none are configured.
func DefaultMetrics() []MetricSpec {
	return []MetricSpec{
		{Name: "Impact Factor", Color: "steelblue"},
		{Name: "CiteScore", Aliases: []string{"CiteScore (Scopus)"}, Color: "seagreen"},
		{Name: "Acceptance Rate", Aliases: []string{"acceptance rate"}, Color: "indianred"},
	}
}

// ResolveMetric returns the first of the metric's name and aliases present in t.
func ResolveMetric(t *table.Table, spec MetricSpec) (string, bool) {
	if t.HasColumn(spec.Name) {
		return spec.Name, true
	}
	for _, a := range spec.Aliases {
		if t.HasColumn(a) {
			return a, true
		}
	}
	return "", false
}

// LookupMetric finds the metric whose name or alias matches name, ignoring case.
// Unknown names yield an ad-hoc metric charting the column of that name.
func LookupMetric(metrics []MetricSpec, name string) MetricSpec {
	for _, m := range metrics {
		if strings.EqualFold(m.Name, name) {
			return m
		}
		for _, a := range m.Aliases {
			if strings.EqualFold(a, name) {
				return m
			}
		}
	}
	return MetricSpec{Name: name}
}

// Point is one bar: an entity label and its metric value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is the chartable data of one metric column in table order.
type Series struct {
	Metric string  `json:"metric"`
	Column string  `json:"column"`
	Points []Point `json:"points"`
}

// Labels returns the point labels.
func (s *Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

// Max returns the largest value, or 0 for an empty series.
func (s *Series) Max() float64 {
	var m float64
	for i, p := range s.Points {
		if i == 0 || p.Value > m {
			m = p.Value
		}
	}
	return m
}

// ExtractSeries pairs each row's entity label with its normalized metric value.
// Rows with an empty label or an unusable value are skipped. A missing metric column
// yields ErrColumnNotFound, an empty result ErrNoValidData.
func ExtractSeries(t *table.Table, entityColumn, metricColumn string) (*Series, error) {
	mi, ok := t.ColumnIndex(metricColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, metricColumn)
	}
	ei, ok := t.ColumnIndex(entityColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", table.ErrNoEntityColumn, entityColumn)
	}
	s := &Series{Metric: metricColumn, Column: metricColumn}
	for _, r := range t.Rows {
		if r[ei].IsEmpty() {
			continue
		}
		v, ok := Normalize(r[mi])
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{Label: r[ei].String(), Value: v})
	}
	if len(s.Points) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoValidData, metricColumn)
	}
	return s, nil
}

// Chart is the outcome of one configured metric: a series or an informational error.
type Chart struct {
	Spec   MetricSpec
	Series *Series
	Err    error
}

// Overview extracts a series for every configured metric. Failures are recorded per
// chart and never stop the remaining metrics.
func Overview(t *table.Table, entityColumn string, metrics []MetricSpec) []Chart {
	out := make([]Chart, 0, len(metrics))
	for _, m := range metrics {
		ch := Chart{Spec: m}
		col, ok := ResolveMetric(t, m)
		if !ok {
			ch.Err = fmt.Errorf("%w: %q", ErrColumnNotFound, m.Name)
			out = append(out, ch)
			continue
		}
		s, err := ExtractSeries(t, entityColumn, col)
		if s != nil {
			s.Metric = m.Name
		}
		ch.Series, ch.Err = s, err
		out = append(out, ch)
	}
	return out
}
