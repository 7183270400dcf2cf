package weekly

import (
	"strings"
	"time"
)

// CarryForward copies the open items of earlier days in the current week
// under today's day section and marks the originals "- [->] ...".
//
// Only day sections of the current week that come before today's header are
// scanned; the week header and the Unresolved block are never candidates.
// Items are handled top to bottom and each copy is inserted two lines below
// today's header, so the last carried item ends up first. When the current
// week has no section for today the document is returned untouched.
func CarryForward(doc string, now time.Time) (string, int) {
	lines := Scan(doc)
	end := currentWeekEnd(lines)
	today := dayIndex(lines[:end], now)
	if today < 0 {
		return doc, 0
	}

	carried := 0
	inDay := false
	for i := 1; i < today; i++ {
		l := lines[i]
		switch l.Kind {
		case KindDayHeader:
			inDay = true
		case KindUnresolvedHeader, KindWeekHeader:
			inDay = false
		case KindItem:
			if !inDay || l.State != StateOpen {
				continue
			}
			lines = insertLine(lines, today+2, Classify(l.Text))
			lines[i] = Mark(l, MarkMovedToday)
			carried++
		}
	}
	if carried == 0 {
		return doc, 0
	}
	return Join(lines), carried
}

// dayIndex returns the index of the day header for now, skipping the first
// line so a week header naming the same date never matches.
func dayIndex(lines []Line, now time.Time) int {
	date := FormatDate(now)
	for i := 1; i < len(lines); i++ {
		if lines[i].Kind == KindDayHeader && strings.Contains(lines[i].Text, date) {
			return i
		}
	}
	return -1
}
