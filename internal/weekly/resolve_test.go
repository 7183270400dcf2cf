package weekly

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dec18 = date(2023, time.December, 18)
	dec25 = date(2023, time.December, 25)
	jan1  = date(2024, time.January, 1)
	jan3  = date(2024, time.January, 3)
)

// withItems replaces the placeholder under d's day header with items.
func withItems(doc string, d time.Time, items ...string) string {
	old := DayHeader(d) + "\n\n" + Placeholder + "\n"
	repl := DayHeader(d) + "\n\n" + strings.Join(items, "\n") + "\n"
	return strings.Replace(doc, old, repl, 1)
}

func TestResolveUnresolvedMovesPriorWeekItems(t *testing.T) {
	prior := withItems(NewWeek(dec25), dec25, "- [ ] buy milk", "- [x] pay rent")
	doc := PrependWeek(prior, jan1)

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 1, moved)
	assert.True(t, strings.HasPrefix(out,
		jan1Header+"\n"+UnresolvedHeader+"\n- [ ] buy milk\n\n## Monday, Jan 1st, 2024\n"), out)
	assert.Contains(t, out, "## Monday, Dec 25th, 2023\n\n- [?] buy milk\n- [x] pay rent\n")
	assert.Equal(t, 2, strings.Count(out, "buy milk"))
}

func TestResolveUnresolvedDeduplicatesAcrossWeeks(t *testing.T) {
	doc := NewWeek(jan1) +
		withItems(NewWeek(dec25), dec25, "- [ ] buy milk") +
		withItems(NewWeek(dec18), dec18, "- [ ] buy milk")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 1, moved)
	assert.Equal(t, 1, strings.Count(out, "- [ ] buy milk"))
	assert.Equal(t, 2, strings.Count(out, "- [?] buy milk"))
	assert.Equal(t, 1, strings.Count(out, UnresolvedHeader))
}

func TestResolveUnresolvedIsIdempotent(t *testing.T) {
	doc := NewWeek(jan1) +
		withItems(NewWeek(dec25), dec25, "- [ ] buy milk", "- [ ] call mom") +
		withItems(NewWeek(dec18), dec18, "- [ ] buy milk", "- [x] done")

	once, moved := ResolveUnresolved(doc)
	require.Equal(t, 2, moved)

	twice, moved := ResolveUnresolved(once)
	assert.Equal(t, 0, moved)
	assert.Equal(t, once, twice)
}

func TestResolveUnresolvedInsertsNewestFirst(t *testing.T) {
	doc := NewWeek(jan1) + withItems(NewWeek(dec25), dec25, "- [ ] a", "- [ ] b")

	out, _ := ResolveUnresolved(doc)

	assert.True(t, strings.HasPrefix(out, jan1Header+"\n"+UnresolvedHeader+"\n- [ ] b\n- [ ] a\n\n"), out)
}

func TestResolveUnresolvedKeepsExistingBlock(t *testing.T) {
	current := jan1Header + "\n" + UnresolvedHeader + "\n- [ ] old\n\n" + NewWeekBody(jan1)
	doc := current + withItems(NewWeek(dec25), dec25, "- [ ] old", "- [ ] new")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 1, moved)
	assert.True(t, strings.HasPrefix(out, jan1Header+"\n"+UnresolvedHeader+"\n- [ ] new\n- [ ] old\n\n"), out)
	// Already listed, so the original is left as it was.
	assert.Contains(t, out, "## Monday, Dec 25th, 2023\n\n- [ ] old\n- [?] new\n")
}

func TestResolveUnresolvedDropsEmptyBlock(t *testing.T) {
	doc := jan1Header + "\n" + UnresolvedHeader + "\n\n" + NewWeekBody(jan1)

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 0, moved)
	assert.Equal(t, NewWeek(jan1), out)
}

func TestResolveUnresolvedWithoutEndedWeeks(t *testing.T) {
	doc := withItems(NewWeek(jan1), jan1, "- [ ] today's thing")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 0, moved)
	assert.Equal(t, doc, out)

	out, moved = ResolveUnresolved("")
	assert.Equal(t, 0, moved)
	assert.Equal(t, "", out)
}

func TestResolveUnresolvedMarksEveryIdenticalLine(t *testing.T) {
	current := withItems(NewWeek(jan1), jan1, "- [ ] buy milk")
	doc := current + withItems(NewWeek(dec25), dec25, "- [ ] buy milk")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 1, moved)
	assert.Equal(t, 2, strings.Count(out, "- [?] buy milk"))
	assert.Contains(t, out, "## Monday, Jan 1st, 2024\n\n- [?] buy milk\n")
	assert.Equal(t, 1, strings.Count(out, "- [ ] buy milk"))
}

func TestResolveUnresolvedMatchesWholeLinesOnly(t *testing.T) {
	doc := NewWeek(jan1) +
		withItems(NewWeek(dec25), dec25, "- [ ] buy milk and eggs") +
		withItems(NewWeek(dec18), dec18, "- [ ] buy milk")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 2, moved)
	assert.Contains(t, out, "- [?] buy milk and eggs")
	assert.Contains(t, out, "\n- [?] buy milk\n")
}

func TestResolveUnresolvedSkipsNestedItems(t *testing.T) {
	doc := NewWeek(jan1) + withItems(NewWeek(dec25), dec25, "- [x] parent", "  - [ ] child")

	out, moved := ResolveUnresolved(doc)

	assert.Equal(t, 0, moved)
	assert.Equal(t, doc, out)
}
