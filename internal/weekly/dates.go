package weekly

import (
	"strconv"
	"time"
)

// OrdinalSuffix returns the English ordinal suffix for a day of the month.
func OrdinalSuffix(day int) string {
	if (day >= 4 && day <= 20) || (day >= 24 && day <= 30) {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// FormatDate renders d as "Monday, Jan 1st, 2024".
func FormatDate(d time.Time) string {
	day := d.Day()
	return d.Format("Monday, Jan ") + strconv.Itoa(day) + OrdinalSuffix(day) + d.Format(", 2006")
}

// Monday returns the Monday of the week containing d. Weeks start on Monday.
func Monday(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
