package weekly

import "strings"

// ResolveUnresolved moves the open items of every ended week into the
// Unresolved block under the current week's header.
//
// Each newly collected item is rewritten in place as "- [?] ..." on every
// line whose text is identical to it, anywhere in the document, and is then
// listed once under UnresolvedHeader. Identity is exact line equality. The
// block is created when there is something to list and dropped when it is
// empty. The returned count is the number of items collected on this call;
// a second call on the output returns it unchanged with a count of 0.
func ResolveUnresolved(doc string) (string, int) {
	lines := Scan(doc)

	unresolved := unresolvedSeed(lines)
	listed := make(map[string]bool, len(unresolved))
	for _, item := range unresolved {
		listed[item] = true
	}

	moved := 0
	for i := currentWeekEnd(lines); i < len(lines); i++ {
		l := lines[i]
		if l.Kind != KindItem || l.State != StateOpen || l.Indent > 0 || listed[l.Text] {
			continue
		}
		listed[l.Text] = true
		unresolved = append(unresolved, l.Text)
		markAll(lines, l.Text, MarkMovedUnresolved)
		moved++
	}

	if len(unresolved) > 0 {
		if len(lines) < 2 || lines[1].Kind != KindUnresolvedHeader {
			lines = insertLine(lines, 1, Classify(UnresolvedHeader))
		}
		for _, item := range unresolved {
			if containsText(lines, item) {
				continue
			}
			lines = insertLine(lines, 2, Classify(item))
		}
	} else if len(lines) > 1 && lines[1].Kind == KindUnresolvedHeader {
		lines = append(lines[:1], lines[2:]...)
	}
	return Join(lines), moved
}

// unresolvedSeed returns the distinct non-empty lines of the Unresolved block
// sitting directly under the first line, in document order.
func unresolvedSeed(lines []Line) []string {
	if len(lines) < 2 || lines[1].Kind != KindUnresolvedHeader {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, l := range lines[2:] {
		if strings.HasPrefix(l.Text, "#") || l.Kind == KindEndOfWeek {
			break
		}
		if l.Kind == KindBlank || seen[l.Text] {
			continue
		}
		seen[l.Text] = true
		out = append(out, l.Text)
	}
	return out
}

// markAll rewrites every item line equal to text with mark.
func markAll(lines []Line, text, mark string) {
	for i := range lines {
		if lines[i].Kind == KindItem && lines[i].Text == text {
			lines[i] = Mark(lines[i], mark)
		}
	}
}
