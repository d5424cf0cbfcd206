package deadline

import (
	"strings"
	"time"
)

// Soft-fallback values used when a fragment lacks the corresponding element.
const (
	UnnamedTask   = "Unnamed Task"
	UnknownCourse = "unknown"
)

// Fragment is one event node from a portal calendar day view, already
// reduced to text by the session provider. Title, Course and When are
// empty when the corresponding element was not present.
type Fragment struct {
	Title  string
	Course string
	When   string
	Text   string
}

// Record is a normalized pending-assignment deadline scraped from the
// portal. DueAt is nil when no date could be parsed out of the fragment.
type Record struct {
	Name    string     `json:"name"`
	Course  string     `json:"course"`
	RawText string     `json:"raw_text"`
	DueAt   *time.Time `json:"due_at,omitempty"`
}

// Key is the duplicate-suppression identity: name and raw text, case- and
// whitespace-normalized. Overlapping day views yield the same key for the
// same task.
func (r Record) Key() string {
	return normalize(r.Name) + "\x00" + normalize(r.RawText)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Bucket is the relative-day urgency of a record. It is derived from
// (due date, run timestamp) and never stored.
type Bucket int

const (
	BucketUnclassified Bucket = iota
	BucketOverdue
	BucketDueToday
	BucketDueTomorrow
	BucketDueIn2Days
)

func (b Bucket) String() string {
	switch b {
	case BucketOverdue:
		return "overdue"
	case BucketDueToday:
		return "due_today"
	case BucketDueTomorrow:
		return "due_tomorrow"
	case BucketDueIn2Days:
		return "due_in_2_days"
	default:
		return "unclassified"
	}
}
