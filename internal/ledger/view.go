package ledger

import (
	"slices"

	"lavish/internal/core"
)

// View is everything the page shows for one month filter.
type View struct {
	Month   string         `json:"month"`
	Records []core.Record  `json:"records"`
	Summary core.Summary   `json:"summary"`
	Chart   core.ChartFeed `json:"chart"`
	Months  []string       `json:"months"`
}

// View builds the filtered list together with the ledger-wide summary, the
// chart feed and the month options (led by "all"), all from one snapshot.
func (s *Store) View(month string) View {
	if month == "" {
		month = core.AllMonths
	}
	s.mu.Lock()
	records := s.listFiltered(month)
	summary := summarize(s.records)
	months := s.distinctMonths()
	s.mu.Unlock()

	return View{
		Month:   month,
		Records: records,
		Summary: summary,
		Chart:   summary.Chart(),
		Months:  slices.Insert(months, 0, core.AllMonths),
	}
}
