package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parseDate resolves the --date flag against base. ISO dates are taken
// literally; anything else goes through natural-language parsing.
func parseDate(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return base, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, base.Location()); err == nil {
		return t, nil
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized --date %q", s)
	}
	return r.Time, nil
}
