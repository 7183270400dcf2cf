package weekly

import "time"

// OpeningLine returns the 1-based line an editor should open at: the first
// item under today's day header. It returns 0 when today has no section.
func OpeningLine(doc string, now time.Time) int {
	if i := dayIndex(Scan(doc), now); i >= 0 {
		return i + 3
	}
	return 0
}
