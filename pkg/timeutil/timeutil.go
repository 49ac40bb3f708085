// Package timeutil handles the deadline timestamp formats found in the store.
// Records are written by several external systems, so the parser accepts the
// common ISO-8601 spellings and remembers which one it saw - a rewritten
// record keeps the layout it arrived in.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// deadlineLayouts are tried in order. RFC3339 also covers fractional seconds.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDeadline parses an ISO-8601 deadline string and returns the matched
// layout alongside the time.
func ParseDeadline(s string) (time.Time, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "", fmt.Errorf("timeutil: empty deadline")
	}

	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, exactLayout(s, layout), nil
		}
		lastErr = err
	}
	return time.Time{}, "", fmt.Errorf("timeutil: unrecognized deadline %q: %w", s, lastErr)
}

// exactLayout widens the matched layout with a fractional-seconds element of
// the same width as the input's. time.Parse accepts a fraction even when the
// layout has none, so without this a ".500" deadline would be written back
// truncated.
func exactLayout(s, layout string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 || !strings.Contains(layout, "05") {
		return layout
	}

	digits := 0
	for _, r := range s[dot+1:] {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}
	if digits == 0 {
		return layout
	}

	return strings.Replace(layout, "05", "05."+strings.Repeat("0", digits), 1)
}

// FormatDeadline formats a deadline using the layout it was parsed with.
// An empty layout falls back to RFC3339.
func FormatDeadline(t time.Time, layout string) string {
	if layout == "" {
		layout = time.RFC3339
	}
	return t.Format(layout)
}
