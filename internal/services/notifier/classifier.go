package notifier

import (
	"time"

	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
)

// Classify buckets a record relative to the calendar day of now. The
// comparison is between start-of-day values in now's fixed-offset zone, so
// a due time anywhere inside the current local day is DueToday regardless
// of its clock component.
func Classify(rec deadline.Record, now time.Time) deadline.Bucket {
	if rec.DueAt == nil {
		return deadline.BucketUnclassified
	}
	due := rec.DueAt.In(now.Location())
	delta := int(startOfDay(due).Sub(startOfDay(now)) / (24 * time.Hour))
	switch {
	case delta < 0:
		return deadline.BucketOverdue
	case delta == 0:
		return deadline.BucketDueToday
	case delta == 1:
		return deadline.BucketDueTomorrow
	case delta == 2:
		return deadline.BucketDueIn2Days
	default:
		// Too far out to act on.
		return deadline.BucketUnclassified
	}
}

// Partition groups records by bucket, preserving input order inside each
// bucket.
func Partition(recs []deadline.Record, now time.Time) map[deadline.Bucket][]deadline.Record {
	buckets := make(map[deadline.Bucket][]deadline.Record)
	for _, rec := range recs {
		b := Classify(rec, now)
		buckets[b] = append(buckets[b], rec)
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
