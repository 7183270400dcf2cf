package weekly

import "time"

// Summary describes the current week of a document without changing it.
type Summary struct {
	Header      string         `yaml:"header" json:"header"`
	UpToDate    bool           `yaml:"up_to_date" json:"up_to_date"`
	Weeks       int            `yaml:"weeks" json:"weeks"`
	Today       string         `yaml:"today" json:"today"`
	OpeningLine int            `yaml:"opening_line" json:"opening_line"`
	Unresolved  int            `yaml:"unresolved" json:"unresolved"`
	Items       map[string]int `yaml:"items" json:"items"`
}

// Summarize counts the items of the current week by state.
func Summarize(doc string, now time.Time) Summary {
	lines := Scan(doc)
	s := Summary{
		UpToDate:    !NeedsNewWeek(doc, now),
		Today:       FormatDate(now),
		OpeningLine: OpeningLine(doc, now),
		Unresolved:  len(unresolvedSeed(lines)),
		Items:       map[string]int{},
	}
	if len(lines) > 0 && lines[0].Kind == KindWeekHeader {
		s.Header = lines[0].Text
	}
	for _, l := range lines {
		if l.Kind == KindWeekHeader {
			s.Weeks++
		}
	}
	for _, l := range lines[:currentWeekEnd(lines)] {
		if l.Kind == KindItem {
			s.Items[l.State.String()]++
		}
	}
	return s
}
