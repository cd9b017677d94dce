package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

type staticSource struct {
	t   *table.Table
	err error
}

func (s staticSource) Table(context.Context) (*table.Table, error) { return s.t, s.err }

func journalTable() *table.Table {
	header := []string{"Zeitschrift", "Impact Factor", "CiteScore", "Review days avg", "Notes", "Acceptance Rate"}
	rows := []table.Row{
		{table.TextCell("Journal A"), table.NumberCell(2), table.TextCell("3,5"), table.MissingCell(), table.MissingCell(), table.TextCell("n/a")},
		{table.TextCell("Journal B"), table.TextCell("n/a"), table.NumberCell(4.25), table.NumberCell(30), table.TextCell("  "), table.TextCell("-")},
	}
	return table.New("t1", "journals.xlsx", header, rows)
}

func testMetrics() []analysis.MetricSpec {
	return append(analysis.DefaultMetrics(), analysis.MetricSpec{Name: "H-Index", Color: "gray"})
}

func newTestServer(src TableSource) *Server {
	return New(src, Options{Metrics: testMetrics(), Locale: "en"}, nil)
}

func get(t *testing.T, s *Server, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	res := rec.Result()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(b)
}

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestListJournals(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	res, body := get(t, s, "/api/journals")
	require.Equal(t, http.StatusOK, res.StatusCode)
	m := decode(t, body)
	assert.Equal(t, "success", m["status"])
	assert.Equal(t, "Zeitschrift", m["column"])
	assert.Equal(t, []interface{}{"Journal A", "Journal B"}, m["data"])
	assert.Equal(t, float64(2), m["count"])
}

func TestGetJournalCleansRow(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	res, body := get(t, s, "/api/journals/Journal%20A")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Journal string
		Data    struct {
			Columns []string
			Rows    [][]interface{}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "Journal A", out.Journal)
	assert.Equal(t, []string{"Zeitschrift", "Impact Factor", "CiteScore", "Review days avg", "Acceptance Rate"}, out.Data.Columns)
	require.Len(t, out.Data.Rows, 1)
	assert.Equal(t, []interface{}{"Journal A", float64(2), "3,5", "no values available", "n/a"}, out.Data.Rows[0])
}

func TestGetJournalUsesGermanLabel(t *testing.T) {
	s := New(staticSource{t: journalTable()}, Options{Metrics: testMetrics(), Locale: "de"}, nil)
	_, body := get(t, s, "/api/journals/Journal%20A")
	assert.Contains(t, body, `"keine Werte"`)

	_, body = get(t, s, "/api/journals/Journal%20A?lang=en")
	assert.Contains(t, body, `"no values available"`)
}

func TestGetJournalUnknown(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	res, body := get(t, s, "/api/journals/Nope")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	m := decode(t, body)
	assert.Equal(t, "info", m["status"])
	assert.Equal(t, "Journal 'Nope' not found.", m["message"])
}

func TestGetSeries(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})

	res, body := get(t, s, "/api/series/Impact%20Factor")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		Color string
		Data  analysis.Series
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "steelblue", out.Color)
	assert.Equal(t, []analysis.Point{{Label: "Journal A", Value: 2}}, out.Data.Points)

	_, body = get(t, s, "/api/series/citescore")
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "CiteScore", out.Data.Metric)
	assert.Equal(t, []analysis.Point{{Label: "Journal A", Value: 3.5}, {Label: "Journal B", Value: 4.25}}, out.Data.Points)
}

func TestGetSeriesSignals(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})

	res, body := get(t, s, "/api/series/H-Index")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Column 'H-Index' not present in the data.", decode(t, body)["message"])

	res, body = get(t, s, "/api/series/Acceptance%20Rate")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	m := decode(t, body)
	assert.Equal(t, "info", m["status"])
	assert.Equal(t, "No valid data for 'Acceptance Rate'.", m["message"])
}

func TestOverview(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	_, body := get(t, s, "/api/overview")

	var out struct {
		Data []overviewItem
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Data, 4)
	assert.NotNil(t, out.Data[0].Series)
	assert.NotNil(t, out.Data[1].Series)
	assert.Equal(t, "No valid data for 'Acceptance Rate'.", out.Data[2].Message)
	assert.Equal(t, "Column 'H-Index' not present in the data.", out.Data[3].Message)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})

	res, body := get(t, s, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<option value="Journal A" selected>`)
	assert.Contains(t, body, "Data for: Journal A")
	assert.Contains(t, body, "<td>no values available</td>")
	assert.NotContains(t, body, "<th>Notes</th>")
	assert.Contains(t, body, "No valid data for &#39;Acceptance Rate&#39;.")
	assert.Contains(t, body, `<iframe src="/charts?lang=en"`)

	_, body = get(t, s, "/?journal=Journal%20B")
	assert.Contains(t, body, `<option value="Journal B" selected>`)
	assert.Contains(t, body, "<td>4.25</td>")
	assert.Contains(t, body, "<td>30</td>")
}

func TestIndexPageShowsLoadFailure(t *testing.T) {
	s := newTestServer(staticSource{err: errors.New("file is locked")})
	res, body := get(t, s, "/?lang=de")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Daten konnten nicht geladen werden: file is locked")
	assert.NotContains(t, body, "<select")
}

func TestChartsPage(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	res, body := get(t, s, "/charts")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "steelblue")
	assert.Contains(t, body, "seagreen")
	assert.NotContains(t, body, "indianred")
	assert.Contains(t, body, "toFixed(2)")
}

func TestErrorsMapToStatus(t *testing.T) {
	res, body := get(t, newTestServer(staticSource{err: errors.New("boom")}), "/api/journals")
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "error", decode(t, body)["status"])

	noKey := table.New("t2", "x.csv", []string{"Name", "Impact Factor"}, []table.Row{{table.TextCell("A"), table.NumberCell(1)}})
	res, body = get(t, newTestServer(staticSource{t: noKey}), "/api/journals")
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "No journal column found (tried Zeitschrift, URL).", decode(t, body)["message"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(staticSource{t: journalTable()})
	_, body := get(t, s, "/healthz")
	assert.Equal(t, "ok", decode(t, body)["status"])

	get(t, s, "/api/journals")
	_, body = get(t, s, "/metrics")
	assert.True(t, strings.Contains(body, `jmetrics_http_requests_total{code="200",method="GET",route="/api/journals"} 1`), body)
	assert.Contains(t, body, "jmetrics_table_rows 2")

	_, body = get(t, newTestServer(staticSource{err: errors.New("gone")}), "/healthz")
	assert.Equal(t, "degraded", decode(t, body)["status"])
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(staticSource{t: journalTable()}, Options{Addr: "127.0.0.1:0"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
