package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/i18n"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: .3rem .6rem; text-align: left; }
th { background: #f3f3f3; }
.info { background: #e8f1fb; border-left: 4px solid steelblue; padding: .5rem 1rem; }
iframe { border: 0; width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Message}}<p class="info">{{.Message}}</p>{{end}}
{{if .Journals}}
<form method="get" action="/">
<label for="journal">{{.SelectLabel}}</label>
<select id="journal" name="journal" onchange="this.form.submit()">
{{range .Journals}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
{{end}}</select>
<input type="hidden" name="lang" value="{{.Lang}}">
<noscript><button type="submit">OK</button></noscript>
</form>
{{end}}
{{with .Selection}}
<h2>{{$.DataFor}}</h2>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}
{{if .Journals}}
<h2>{{.OverviewHeader}}</h2>
{{range .Notices}}<p class="info">{{.}}</p>
{{end}}
{{if .Charts}}<iframe src="/charts?lang={{.Lang}}" height="{{.FrameHeight}}"></iframe>{{end}}
{{end}}
</body>
</html>
`))

type indexPage struct {
	Lang           string
	Title          string
	Message        string
	SelectLabel    string
	Journals       []string
	Selected       string
	DataFor        string
	Selection      *analysis.DisplayTable
	OverviewHeader string
	Notices        []string
	Charts         int
	FrameHeight    int
}

// handleIndex renders the journal selector, the cleaned rows of the selected journal
// (the first one by default) and the overview charts.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := s.printer(r)
	page := indexPage{
		Lang:           p.Lang(),
		Title:          p.Sprintf(i18n.Title),
		SelectLabel:    p.Sprintf(i18n.SelectJournal),
		OverviewHeader: p.Sprintf(i18n.OverviewHeader),
	}

	d, err := s.dataset(r.Context())
	switch {
	case err != nil:
		page.Message = s.explain(p, err, "")
	case len(d.journals) == 0:
		page.Message = p.Sprintf(i18n.NoJournals)
	default:
		page.Journals = d.journals
		page.Selected = r.URL.Query().Get("journal")
		if page.Selected == "" {
			page.Selected = d.journals[0]
		}
		page.DataFor = p.Sprintf(i18n.DataFor, page.Selected)
		sel, err := d.selection(page.Selected, s.cleanOptions(p))
		if err != nil {
			page.Message = s.explain(p, err, page.Selected)
		}
		page.Selection = sel
		for _, ch := range s.overview(d) {
			if ch.Err != nil {
				page.Notices = append(page.Notices, s.explain(p, ch.Err, ch.Spec.Name))
				continue
			}
			page.Charts++
		}
		page.FrameHeight = page.Charts*560 + 40
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		s.log.Error("render index", zap.Error(err))
	}
}
