// Package server serves the journal dashboard: an HTML page with the cleaned table of
// the selected journal, bar-chart overviews and a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

const shutdownTimeout = 10 * time.Second

// TableSource yields the current journal table.
type TableSource interface {
	Table(ctx context.Context) (*table.Table, error)
}

// Options configures the dashboard.
type Options struct {
	Addr          string
	EntityColumns []string
	Metrics       []analysis.MetricSpec
	// Clean.MissingLabel falls back to the locale's label when empty.
	Clean  analysis.CleanOptions
	Locale string
}

// Server wires the dashboard routes around a table source.
type Server struct {
	src    TableSource
	opt    Options
	log    *zap.Logger
	router *chi.Mux

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	rows     prometheus.Gauge
}

// New builds the server and its router. log may be nil.
func New(src TableSource, opt Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opt.EntityColumns) == 0 {
		opt.EntityColumns = table.DefaultEntityColumns
	}
	s := &Server{
		src:      src,
		opt:      opt,
		log:      log.With(zap.String("component", "server")),
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jmetrics_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jmetrics_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jmetrics_table_rows",
			Help: "Rows in the most recently served journal table.",
		}),
	}
	s.registry.MustRegister(s.requests, s.latency, s.rows)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/charts", s.handleCharts)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Mount("/api", s.apiRoutes())
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on Options.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", zap.String("addr", s.opt.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opt.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// printer picks the request's ?lang= override, else the configured locale.
func (s *Server) printer(r *http.Request) *i18n.Printer {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.New(lang)
	}
	return i18n.New(s.opt.Locale)
}

func (s *Server) cleanOptions(p *i18n.Printer) analysis.CleanOptions {
	opt := s.opt.Clean
	if opt.MissingLabel == "" {
		opt.MissingLabel = p.Sprintf(i18n.MissingValues)
	}
	return opt
}
