package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
)

var tz = time.FixedZone("UTC+5", 5*3600)

func tp(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 30, 0, 0, tz)

	cases := []struct {
		name string
		due  *time.Time
		want deadline.Bucket
	}{
		{"nil due date", nil, deadline.BucketUnclassified},
		{"midnight today is today, not overdue", tp(time.Date(2025, 9, 1, 0, 0, 0, 0, tz)), deadline.BucketDueToday},
		{"end of today", tp(time.Date(2025, 9, 1, 23, 59, 0, 0, tz)), deadline.BucketDueToday},
		{"earlier hour today is still today", tp(time.Date(2025, 9, 1, 8, 0, 0, 0, tz)), deadline.BucketDueToday},
		{"yesterday", tp(time.Date(2025, 8, 31, 23, 59, 0, 0, tz)), deadline.BucketOverdue},
		{"a week ago", tp(time.Date(2025, 8, 25, 12, 0, 0, 0, tz)), deadline.BucketOverdue},
		{"tomorrow midnight", tp(time.Date(2025, 9, 2, 0, 0, 0, 0, tz)), deadline.BucketDueTomorrow},
		{"in two days", tp(time.Date(2025, 9, 3, 15, 0, 0, 0, tz)), deadline.BucketDueIn2Days},
		{"in three days is too far out", tp(time.Date(2025, 9, 4, 0, 0, 0, 0, tz)), deadline.BucketUnclassified},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := deadline.Record{Name: "hw", Course: "cs101", RawText: "hw text", DueAt: tc.due}
			assert.Equal(t, tc.want, Classify(rec, now))
		})
	}
}

func TestClassifyNilDueIgnoresRawText(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, tz)
	rec := deadline.Record{
		Name:    "hw",
		Course:  "cs101",
		RawText: "due Monday, 1 September, 11:59 PM Add submission",
	}
	assert.Equal(t, deadline.BucketUnclassified, Classify(rec, now))
}

func TestClassifyUsesNowLocation(t *testing.T) {
	// 20:00 UTC on Aug 31 is 01:00 Sep 1 in UTC+5: local day wins.
	now := time.Date(2025, 9, 1, 1, 0, 0, 0, tz)
	due := time.Date(2025, 8, 31, 20, 30, 0, 0, time.UTC)
	rec := deadline.Record{Name: "hw", RawText: "x", DueAt: &due}
	assert.Equal(t, deadline.BucketDueToday, Classify(rec, now))
}

func TestClassifyDeterministic(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, tz)
	rec := deadline.Record{Name: "hw", RawText: "x", DueAt: tp(time.Date(2025, 9, 2, 9, 0, 0, 0, tz))}
	first := Classify(rec, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(rec, now))
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, tz)
	a := deadline.Record{Name: "a", RawText: "a", DueAt: tp(time.Date(2025, 9, 1, 9, 0, 0, 0, tz))}
	b := deadline.Record{Name: "b", RawText: "b", DueAt: tp(time.Date(2025, 9, 1, 20, 0, 0, 0, tz))}
	c := deadline.Record{Name: "c", RawText: "c"}

	buckets := Partition([]deadline.Record{a, b, c}, now)
	assert.Equal(t, []deadline.Record{a, b}, buckets[deadline.BucketDueToday])
	assert.Equal(t, []deadline.Record{c}, buckets[deadline.BucketUnclassified])
}
