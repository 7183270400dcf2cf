package weekly

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store loads and saves the whole document. Save always replaces the content.
type Store interface {
	Load() (string, error)
	Save(content string) error
}

// Result reports what a roll did.
type Result struct {
	Content     string
	NewWeek     bool
	Unresolved  int
	Carried     int
	OpeningLine int
	Saves       int
}

// Roller runs the roll-forward pipeline against a Store.
type Roller struct {
	Store  Store
	Logger *slog.Logger
	// DryRun computes the result without saving.
	DryRun bool
}

// Roll brings the document up to date for now: prepend a new week when the
// first line is stale, collect open items of ended weeks into the Unresolved
// block, then carry earlier open items of this week forward to today. The
// document is saved after every stage that changed it.
func (r *Roller) Roll(ctx context.Context, now time.Time) (*Result, error) {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	doc, err := r.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	res := &Result{}

	if NeedsNewWeek(doc, now) {
		doc = PrependWeek(doc, now)
		res.NewWeek = true
		log.Info("week.created", "header", WeekHeader(now))
		if err := r.save(doc, res); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolved, moved := ResolveUnresolved(doc)
	res.Unresolved = moved
	log.Debug("unresolved.resolved", "moved", moved)
	if resolved != doc {
		doc = resolved
		if err := r.save(doc, res); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	carriedDoc, carried := CarryForward(doc, now)
	res.Carried = carried
	log.Debug("carry.forwarded", "carried", carried, "today", FormatDate(now))
	if carried > 0 {
		doc = carriedDoc
		if err := r.save(doc, res); err != nil {
			return nil, err
		}
	}

	res.Content = doc
	res.OpeningLine = OpeningLine(doc, now)
	return res, nil
}

func (r *Roller) save(doc string, res *Result) error {
	if r.DryRun {
		return nil
	}
	if err := r.Store.Save(doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	res.Saves++
	return nil
}
