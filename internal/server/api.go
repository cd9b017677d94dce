package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

func (s *Server) apiRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/journals", s.listJournals)
	r.Get("/journals/{name}", s.getJournal)
	r.Get("/series/{metric}", s.getSeries)
	r.Get("/overview", s.getOverview)
	return r
}

// listJournals handles GET /api/journals.
func (s *Server) listJournals(w http.ResponseWriter, r *http.Request) {
	d, err := s.dataset(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"column": d.entity,
		"data":   d.journals,
		"count":  len(d.journals),
	})
}

// getJournal handles GET /api/journals/{name} with the cleaned rows of one journal.
func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	d, err := s.dataset(r.Context())
	if err != nil {
		s.fail(w, r, err, name)
		return
	}
	sel, err := d.selection(name, s.cleanOptions(s.printer(r)))
	if err != nil {
		s.fail(w, r, err, name)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"journal": name,
		"data":    sel,
	})
}

// getSeries handles GET /api/series/{metric}. Missing columns and metrics without
// usable values are informational, not server faults.
func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	spec := analysis.LookupMetric(s.opt.Metrics, urlParam(r, "metric"))
	d, err := s.dataset(r.Context())
	if err != nil {
		s.fail(w, r, err, spec.Name)
		return
	}
	series, err := d.series(spec)
	if err != nil {
		s.fail(w, r, err, spec.Name)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"color":  spec.Color,
		"data":   series,
	})
}

type overviewItem struct {
	Metric  string           `json:"metric"`
	Color   string           `json:"color,omitempty"`
	Series  *analysis.Series `json:"series,omitempty"`
	Message string           `json:"message,omitempty"`
}

// getOverview handles GET /api/overview with one entry per configured metric.
func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	d, err := s.dataset(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	p := s.printer(r)
	var items []overviewItem
	for _, ch := range s.overview(d) {
		it := overviewItem{Metric: ch.Spec.Name, Color: ch.Spec.Color, Series: ch.Series}
		if ch.Err != nil {
			it.Message = s.explain(p, ch.Err, ch.Spec.Name)
		}
		items = append(items, it)
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   items,
		"count":  len(items),
	})
}

// fail maps domain errors to informational 404/422 responses and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, subject string) {
	msg := s.explain(s.printer(r), err, subject)
	status, kind := http.StatusInternalServerError, "error"
	switch {
	case errors.Is(err, analysis.ErrColumnNotFound),
		errors.Is(err, analysis.ErrNoValidData),
		errors.Is(err, table.ErrUnknownEntity):
		status, kind = http.StatusNotFound, "info"
	case errors.Is(err, table.ErrNoEntityColumn):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{
		"status":  kind,
		"message": msg,
	})
}

// urlParam returns the unescaped route parameter; names may carry encoded slashes.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
