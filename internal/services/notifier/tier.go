package notifier

import (
	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
	"github.com/Asimsayam/lms-automation-bot/internal/domain/notification"
)

// Local-hour windows for the three daily notification slots, all bounds
// inclusive.
const (
	morningStart, morningEnd = 9, 11
	eveningStart, eveningEnd = 16, 19
	nightStart, nightEnd     = 22, 23
)

// Evening checks longer-lead buckets first so advance warnings land before
// same-day urgency.
var eveningOrder = []struct {
	bucket deadline.Bucket
	tier   notification.Tier
}{
	{deadline.BucketDueIn2Days, notification.TierDueIn2Days},
	{deadline.BucketDueTomorrow, notification.TierDueTomorrow},
	{deadline.BucketDueToday, notification.TierDueToday},
}

// SelectTier decides whether this run notifies and at which tier. It is a
// pure function of the local hour and the set of non-empty buckets.
// AllClear exists only in the morning window; evening and night stay
// silent when nothing matches so the day never gets a second
// nothing-to-report mail.
func SelectTier(hour int, present map[deadline.Bucket]bool) (notification.Tier, bool) {
	switch {
	case hour >= morningStart && hour <= morningEnd:
		if present[deadline.BucketDueToday] {
			return notification.TierDueToday, true
		}
		return notification.TierAllClear, true

	case hour >= eveningStart && hour <= eveningEnd:
		for _, step := range eveningOrder {
			if present[step.bucket] {
				return step.tier, true
			}
		}
		return 0, false

	case hour >= nightStart && hour <= nightEnd:
		if present[deadline.BucketDueToday] {
			return notification.TierFinalWarning, true
		}
		return 0, false
	}
	return 0, false
}

// TierBucket maps a date-windowed tier back to the bucket whose records it
// reports. AllClear reports no records.
func TierBucket(t notification.Tier) (deadline.Bucket, bool) {
	switch t {
	case notification.TierDueToday, notification.TierFinalWarning:
		return deadline.BucketDueToday, true
	case notification.TierDueTomorrow:
		return deadline.BucketDueTomorrow, true
	case notification.TierDueIn2Days:
		return deadline.BucketDueIn2Days, true
	}
	return 0, false
}
