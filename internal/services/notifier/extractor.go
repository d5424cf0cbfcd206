package notifier

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
)

var errEmptyFragment = errors.New("empty fragment")

// Result aggregates one extraction pass. Skipped counts malformed
// fragments; Submitted counts fragments dropped because the portal no
// longer asks for a submission.
type Result struct {
	Records   []deadline.Record
	Skipped   int
	Submitted int
}

// Extractor turns raw day-view fragments into records. A fragment only
// yields a record while it still carries the pending-submission marker;
// everything else about a fragment fails soft.
type Extractor struct {
	marker string
	loc    *time.Location
	log    *zap.Logger
}

func NewExtractor(marker string, loc *time.Location, log *zap.Logger) *Extractor {
	return &Extractor{
		marker: marker,
		loc:    loc,
		log:    log.With(zap.String("component", "notifier.extractor")),
	}
}

// Extract processes every fragment independently: one malformed fragment
// is counted and skipped, never aborting the rest of the pass.
func (e *Extractor) Extract(frags []deadline.Fragment, now time.Time) Result {
	var res Result
	for _, f := range frags {
		rec, pending, err := e.extractOne(f, now)
		if err != nil {
			res.Skipped++
			e.log.Debug("fragment skipped", zap.Error(err))
			continue
		}
		if !pending {
			res.Submitted++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func (e *Extractor) extractOne(f deadline.Fragment, now time.Time) (deadline.Record, bool, error) {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return deadline.Record{}, false, errEmptyFragment
	}
	if !containsFold(text, e.marker) {
		// Already-submitted work: dropped by policy, not by failure.
		return deadline.Record{}, false, nil
	}

	name := strings.TrimSpace(f.Title)
	if name == "" {
		name = deadline.UnnamedTask
	}
	course := strings.TrimSpace(f.Course)
	if course == "" {
		course = deadline.UnknownCourse
	}

	rec := deadline.Record{
		Name:    name,
		Course:  course,
		RawText: text,
	}
	due := parseDue(f.When, now, e.loc)
	if due == nil {
		due = scanDue(text, now, e.loc)
	}
	rec.DueAt = due
	return rec, true, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
