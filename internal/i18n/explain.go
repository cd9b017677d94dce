package i18n

import (
	"errors"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// Explain turns a lookup or extraction error into the informational message shown in
// place of a table or chart. subject is the metric, journal or tried column list the
// error refers to.
func (p *Printer) Explain(err error, subject string) string {
	switch {
	case errors.Is(err, analysis.ErrColumnNotFound):
		return p.Sprintf(ColumnNotFound, subject)
	case errors.Is(err, analysis.ErrNoValidData):
		return p.Sprintf(NoValidData, subject)
	case errors.Is(err, table.ErrNoEntityColumn):
		return p.Sprintf(NoEntityColumn, subject)
	case errors.Is(err, table.ErrUnknownEntity):
		return p.Sprintf(UnknownJournal, subject)
	default:
		return p.Sprintf(LoadFailed, err.Error())
	}
}
