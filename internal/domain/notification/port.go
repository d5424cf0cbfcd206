package notification

import (
	"context"
	"time"
)

// EmailSender is the mail transport boundary. At most one Send happens per
// run; a failed Send is not retried until the next scheduled run.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Clock interface {
	Now() time.Time
}
