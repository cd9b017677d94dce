// Package i18n holds the German and English labels of the dashboard.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	Title          = "Journal Metrics Dashboard"
	SelectJournal  = "Select a journal:"
	DataFor        = "Data for: %s"
	OverviewHeader = "Overviews"
	OverviewTitle  = "Overview: %s"
	AxisJournal    = "Journal"
	MissingValues  = "no values available"
	ColumnNotFound = "Column '%s' not present in the data."
	NoValidData    = "No valid data for '%s'."
	NoEntityColumn = "No journal column found (tried %s)."
	UnknownJournal = "Journal '%s' not found."
	NoJournals     = "No journals in the data."
	LoadFailed     = "Could not load the data: %s"
)

var (
	German  = language.German
	English = language.English
)

func init() {
	de := map[string]string{
		Title:          "Journal Metrics Dashboard",
		SelectJournal:  "Wähle ein Journal aus:",
		DataFor:        "Daten für: %s",
		OverviewHeader: "Gesamtübersichten",
		OverviewTitle:  "Gesamtübersicht: %s",
		AxisJournal:    "Journal",
		MissingValues:  "keine Werte",
		ColumnNotFound: "Spalte '%s' nicht in den Daten vorhanden.",
		NoValidData:    "Keine gültigen Daten für '%s'.",
		NoEntityColumn: "Keine Journal-Spalte gefunden (versucht: %s).",
		UnknownJournal: "Journal '%s' nicht gefunden.",
		NoJournals:     "Keine Journale in den Daten.",
		LoadFailed:     "Daten konnten nicht geladen werden: %s",
	}
	for k, v := range de {
		_ = message.SetString(German, k, v)
		_ = message.SetString(English, k, k)
	}
}

// Printer formats labels for one locale.
type Printer struct {
	p   *message.Printer
	tag language.Tag
}

// New returns a printer for locale ("de" or "en"); anything else falls back to German,
// the language of the source data.
func New(locale string) *Printer {
	tag := German
	if t, err := language.Parse(locale); err == nil {
		matcher := language.NewMatcher([]language.Tag{German, English})
		_, idx, conf := matcher.Match(t)
		if conf != language.No && idx == 1 {
			tag = English
		}
	}
	return &Printer{p: message.NewPrinter(tag), tag: tag}
}

// Sprintf formats key with args in the printer's locale.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Lang returns the BCP 47 base language, e.g. "de".
func (p *Printer) Lang() string {
	base, _ := p.tag.Base()
	return base.String()
}
