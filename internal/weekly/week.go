// Package weekly rolls a plain-text weekly to-do list forward.
//
// The document is Markdown with a few fixed markers: a week header on the
// first line of every week-block, one "## <date>" section per weekday, and an
// end-of-week comment closing each block. New weeks are prepended, so the
// first block of the file is always the current one.
package weekly

import (
	"strings"
	"time"
)

const (
	// EndOfWeekMarker closes a week-block. It is always followed by a blank line.
	EndOfWeekMarker = "<!-- End of Week -->"
	// UnresolvedHeader introduces the carried-over items of the current week.
	UnresolvedHeader = "## Unresolved Items:"

	weekHeaderPrefix = "# Week of "
	dayHeaderPrefix  = "## "
	endOfWeekBlock   = EndOfWeekMarker + "\n\n"

	// OpenPrefix starts every unchecked item with text.
	OpenPrefix = "- [ ] "
	// Placeholder is the empty item seeded into every new day. It has no
	// trailing space so it never matches OpenPrefix.
	Placeholder = "- [ ]"

	// MarkMovedUnresolved replaces the checkbox of items carried into the
	// Unresolved block.
	MarkMovedUnresolved = "?"
	// MarkMovedToday replaces the checkbox of items copied under today.
	MarkMovedToday = "->"

	workWeekDays = 5
)

// WeekHeader returns "# Week of <Monday> -> <Friday>" for the week containing now.
func WeekHeader(now time.Time) string {
	monday := Monday(now)
	friday := monday.AddDate(0, 0, workWeekDays-1)
	return weekHeaderPrefix + FormatDate(monday) + " -> " + FormatDate(friday)
}

// DayHeader returns the "## <date>" line for d.
func DayHeader(d time.Time) string {
	return dayHeaderPrefix + FormatDate(d)
}

// NewWeekBody returns the five day sections for the week containing now,
// each seeded with a Placeholder item, followed by the end-of-week marker.
func NewWeekBody(now time.Time) string {
	monday := Monday(now)
	var b strings.Builder
	for i := 0; i < workWeekDays; i++ {
		b.WriteString(DayHeader(monday.AddDate(0, 0, i)))
		b.WriteString("\n\n")
		b.WriteString(Placeholder)
		b.WriteString("\n\n")
	}
	b.WriteString(endOfWeekBlock)
	return b.String()
}

// NewWeek returns a complete week-block: header, blank line and body.
func NewWeek(now time.Time) string {
	return WeekHeader(now) + "\n\n" + NewWeekBody(now)
}

// NeedsNewWeek reports whether doc is empty or its first line is not the
// header of the week containing now.
func NeedsNewWeek(doc string, now time.Time) bool {
	first, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSpace(first) != WeekHeader(now)
}

// PrependWeek puts a fresh week-block for now in front of doc.
func PrependWeek(doc string, now time.Time) string {
	return NewWeek(now) + doc
}
