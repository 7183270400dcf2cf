package weekly

import (
	"strings"
)

// Kind tags a scanned line.
type Kind int

const (
	KindText Kind = iota
	KindBlank
	KindWeekHeader
	KindDayHeader
	KindUnresolvedHeader
	KindItem
	KindEndOfWeek
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindWeekHeader:
		return "week-header"
	case KindDayHeader:
		return "day-header"
	case KindUnresolvedHeader:
		return "unresolved-header"
	case KindItem:
		return "item"
	case KindEndOfWeek:
		return "end-of-week"
	default:
		return "text"
	}
}

// ItemState is the checkbox state of an item line.
type ItemState int

const (
	StateNone ItemState = iota
	StateOpen
	StateEmpty
	StateMovedUnresolved
	StateMovedToday
	StateResolved
)

func (s ItemState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateEmpty:
		return "empty"
	case StateMovedUnresolved:
		return "moved-unresolved"
	case StateMovedToday:
		return "moved-today"
	case StateResolved:
		return "resolved"
	default:
		return "none"
	}
}

// Line is one scanned line. Text is always the raw line, so Join(Scan(s)) == s.
type Line struct {
	Kind   Kind
	State  ItemState
	Indent int
	Text   string
}

// Scan splits doc on newlines and classifies every line.
func Scan(doc string) []Line {
	raw := strings.Split(doc, "\n")
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Classify(text)
	}
	return lines
}

// Join is the inverse of Scan.
func Join(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
	}
	return b.String()
}

// Classify tags a single line. A trailing carriage return is ignored for
// tagging but kept in Text.
func Classify(text string) Line {
	l := Line{Kind: KindText, Text: text}
	key := strings.TrimSuffix(text, "\r")
	switch {
	case key == EndOfWeekMarker:
		l.Kind = KindEndOfWeek
	case key == UnresolvedHeader:
		l.Kind = KindUnresolvedHeader
	case strings.HasPrefix(key, weekHeaderPrefix):
		l.Kind = KindWeekHeader
	case strings.HasPrefix(key, dayHeaderPrefix):
		l.Kind = KindDayHeader
	case strings.TrimSpace(key) == "":
		l.Kind = KindBlank
	default:
		trimmed := strings.TrimLeft(key, " \t")
		if state, ok := itemState(trimmed); ok {
			l.Kind = KindItem
			l.State = state
			l.Indent = len(key) - len(trimmed)
		}
	}
	return l
}

// itemState recognizes "- [<mark>]" with a mark of one to three bytes.
func itemState(s string) (ItemState, bool) {
	if !strings.HasPrefix(s, "- [") {
		return StateNone, false
	}
	end := strings.IndexByte(s[3:], ']')
	if end < 1 || end > 3 {
		return StateNone, false
	}
	mark := s[3 : 3+end]
	switch {
	case s == Placeholder:
		return StateEmpty, true
	case strings.HasPrefix(s, OpenPrefix):
		return StateOpen, true
	case mark == " ":
		// "- [ ]" followed by something other than a space, e.g. "- [ ]x".
		return StateResolved, true
	case mark == MarkMovedUnresolved:
		return StateMovedUnresolved, true
	case mark == MarkMovedToday:
		return StateMovedToday, true
	default:
		return StateResolved, true
	}
}

// Mark rewrites the checkbox of an item line with mark, keeping indentation
// and item text. Non-item lines are returned unchanged.
func Mark(l Line, mark string) Line {
	if l.Kind != KindItem {
		return l
	}
	body := l.Text[l.Indent:]
	end := 3 + strings.IndexByte(body[3:], ']')
	return Classify(l.Text[:l.Indent] + "- [" + mark + body[end:])
}

// currentWeekEnd returns the index of the first end-of-week marker, which
// closes the current week, or len(lines) when there is none.
func currentWeekEnd(lines []Line) int {
	for i, l := range lines {
		if l.Kind == KindEndOfWeek {
			return i
		}
	}
	return len(lines)
}

func insertLine(lines []Line, at int, l Line) []Line {
	if at >= len(lines) {
		return append(lines, l)
	}
	lines = append(lines, Line{})
	copy(lines[at+1:], lines[at:])
	lines[at] = l
	return lines
}

func containsText(lines []Line, text string) bool {
	for _, l := range lines {
		if l.Text == text {
			return true
		}
	}
	return false
}
