package server

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// dataset is the table of one request together with its resolved journal column.
type dataset struct {
	table    *table.Table
	entity   string
	journals []string
}

func (s *Server) dataset(ctx context.Context) (*dataset, error) {
	t, err := s.src.Table(ctx)
	if err != nil {
		return nil, err
	}
	s.rows.Set(float64(len(t.Rows)))
	entity, err := t.EntityColumn(s.opt.EntityColumns...)
	if err != nil {
		return nil, err
	}
	return &dataset{table: t, entity: entity, journals: t.Entities(entity)}, nil
}

// selection cleans every row of journal.
func (d *dataset) selection(journal string, opt analysis.CleanOptions) (*analysis.DisplayTable, error) {
	rows, err := d.table.RowsWhere(d.entity, journal)
	if err != nil {
		return nil, err
	}
	return analysis.CleanRows(d.table.Columns, rows, opt), nil
}

func (d *dataset) series(spec analysis.MetricSpec) (*analysis.Series, error) {
	charts := analysis.Overview(d.table, d.entity, []analysis.MetricSpec{spec})
	return charts[0].Series, charts[0].Err
}

func (s *Server) overview(d *dataset) []analysis.Chart {
	charts := analysis.Overview(d.table, d.entity, s.opt.Metrics)
	for _, ch := range charts {
		if ch.Err != nil {
			s.log.Debug("chart skipped", zap.String("metric", ch.Spec.Name), zap.Error(ch.Err))
		}
	}
	return charts
}

// explain renders err for the user. Missing journal columns name the candidates tried.
func (s *Server) explain(p *i18n.Printer, err error, subject string) string {
	if errors.Is(err, table.ErrNoEntityColumn) {
		subject = strings.Join(s.opt.EntityColumns, ", ")
	}
	return p.Explain(err, subject)
}
