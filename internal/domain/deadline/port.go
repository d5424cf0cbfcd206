package deadline

import (
	"context"
	"time"
)

// Portal is the web session provider: an authenticated session against the
// learning portal. One run owns exactly one session and uses it
// sequentially.
type Portal interface {
	Login(ctx context.Context) error
	// DayEvents fetches the calendar day view containing day and returns
	// its event fragments. day is interpreted in the portal's local zone.
	// A missing event list is not an error: the day simply has no records.
	DayEvents(ctx context.Context, day time.Time) ([]Fragment, error)
}
