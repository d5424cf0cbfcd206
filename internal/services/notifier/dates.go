package notifier

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts Moodle renders in calendar day views, most specific first. The
// year-less forms are the common case; the year is resolved against the
// run timestamp afterwards.
var dueLayouts = []string{
	"Monday, 2 January 2006, 3:04 PM",
	"2 January 2006, 3:04 PM",
	"Monday, 2 January, 3:04 PM",
	"2 January, 3:04 PM",
}

var clockLayouts = []string{"3:04 PM", "15:04"}

// parseDue parses a human-readable deadline out of a fragment's date text.
// It returns nil on failure; the record is then kept but unclassified.
func parseDue(s string, now time.Time, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	now = now.In(loc)

	if t := parseRelative(s, now); t != nil {
		return t
	}

	for _, layout := range dueLayouts {
		parsed, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if parsed.Year() == 0 {
			parsed = resolveYear(parsed, now)
		}
		return &parsed
	}

	if parsed, err := dateparse.ParseIn(s, loc); err == nil {
		return &parsed
	}
	return nil
}

// Date-looking substrings inside free text: relative forms and the
// "2 January[ 2006], 3:04 PM" family.
var dueTextRe = regexp.MustCompile(`(?i)\b(?:today|tomorrow),?\s+\d{1,2}:\d{2}\s*(?:AM|PM)|\b\d{1,2}\s+[A-Za-z]+(?:\s+\d{4})?,\s*\d{1,2}:\d{2}\s*(?:AM|PM)`)

// scanDue falls back to hunting a date substring inside the whole fragment
// text when the date element was missing or unreadable.
func scanDue(text string, now time.Time, loc *time.Location) *time.Time {
	m := dueTextRe.FindString(text)
	if m == "" {
		return nil
	}
	return parseDue(m, now, loc)
}

// parseRelative handles "Today, 11:59 PM" and "Tomorrow, 11:59 PM".
func parseRelative(s string, now time.Time) *time.Time {
	lower := strings.ToLower(s)
	days := 0
	switch {
	case strings.HasPrefix(lower, "today"):
		days = 0
	case strings.HasPrefix(lower, "tomorrow"):
		days = 1
	default:
		return nil
	}

	rest := strings.TrimLeft(s[len(strings.Fields(s)[0]):], " ,")
	for _, layout := range clockLayouts {
		clock, err := time.Parse(layout, rest)
		if err != nil {
			continue
		}
		y, m, d := now.AddDate(0, 0, days).Date()
		t := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location())
		return &t
	}
	return nil
}

// resolveYear picks the year that puts a year-less date closest to now, so
// a "31 December" seen in January lands in the past, not eleven months out.
func resolveYear(parsed, now time.Time) time.Time {
	best := parsed
	bestDiff := time.Duration(1<<63 - 1)
	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		candidate := time.Date(y, parsed.Month(), parsed.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, parsed.Location())
		diff := candidate.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = candidate, diff
		}
	}
	return best
}
