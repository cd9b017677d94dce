package cmd

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/cache"
	cfgpkg "github.com/KaramelBytes/journal-metrics/internal/config"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/loader"
	"github.com/KaramelBytes/journal-metrics/internal/logging"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// session bundles what the data commands share: config, logger, labels and the
// cached table source.
type session struct {
	cfg     *cfgpkg.Global
	log     *zap.Logger
	printer *i18n.Printer
	src     *cache.Source
	store   *cache.Store

	closeLog func()
}

func openSession() (*session, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	delim, err := c.Delimiter()
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(c.LogLevel, c.LogFile)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: c, log: log, printer: i18n.New(c.Locale), closeLog: closeLog}
	if !noCache && c.CacheDir != "" {
		st, err := cache.Open(c.CacheDir)
		if err != nil {
			log.Warn("snapshot cache disabled", zap.String("dir", c.CacheDir), zap.Error(err))
		} else {
			s.store = st
		}
	}
	opt := loader.Options{SheetName: c.SheetName, SheetIndex: c.SheetIndex, Delimiter: delim}
	s.src = cache.NewSource(c.DataFile, opt, s.store, log)
	return s, nil
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("close snapshot cache", zap.Error(err))
		}
	}
	s.closeLog()
}

// table loads the spreadsheet and resolves the journal column.
func (s *session) table(ctx context.Context) (*table.Table, string, error) {
	t, err := s.src.Table(ctx)
	if err != nil {
		return nil, "", err
	}
	entity, err := t.EntityColumn(s.cfg.EntityColumns...)
	if err != nil {
		return nil, "", errors.New(s.printer.Explain(err, strings.Join(s.cfg.EntityColumns, ", ")))
	}
	return t, entity, nil
}

func (s *session) cleanOptions() analysis.CleanOptions {
	label := s.cfg.MissingLabel
	if label == "" {
		label = s.printer.Sprintf(i18n.MissingValues)
	}
	return analysis.CleanOptions{MissingLabel: label, PlaceholderColumns: s.cfg.PlaceholderColumns}
}
