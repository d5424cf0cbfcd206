package notifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
	"github.com/Asimsayam/lms-automation-bot/internal/domain/notification"
)

// Dispatcher renders a chosen tier into a subject and plain-text body and
// hands it to the mail transport. It is the sole consumer of finalized
// (tier, records) pairs.
type Dispatcher struct {
	Mail notification.EmailSender
	To   string
	Log  *zap.Logger
}

// Dispatch sends exactly one email. A transport failure is logged and
// surfaced; the run does not retry.
func (d *Dispatcher) Dispatch(ctx context.Context, tier notification.Tier, records, undated []deadline.Record) error {
	subject := renderSubject(tier, len(records))
	body := renderBody(tier, records, undated)

	if err := d.Mail.Send(ctx, d.To, subject, body); err != nil {
		d.Log.Error("dispatch failed",
			zap.String("tier", tier.String()),
			zap.Int("records", len(records)),
			zap.Error(err),
		)
		return fmt.Errorf("dispatch %s: %w", tier, err)
	}

	d.Log.Info("notification dispatched",
		zap.String("tier", tier.String()),
		zap.Int("records", len(records)),
		zap.Int("undated", len(undated)),
	)
	return nil
}

func renderSubject(tier notification.Tier, n int) string {
	switch tier {
	case notification.TierAllClear:
		return "All clear: nothing due today"
	case notification.TierDueToday:
		return fmt.Sprintf("%d %s due TODAY", n, plural(n, "task", "tasks"))
	case notification.TierDueTomorrow:
		return fmt.Sprintf("%d %s due tomorrow", n, plural(n, "task", "tasks"))
	case notification.TierDueIn2Days:
		return fmt.Sprintf("%d %s due in 2 days", n, plural(n, "task", "tasks"))
	case notification.TierFinalWarning:
		return fmt.Sprintf("FINAL WARNING: %d %s still due today", n, plural(n, "task", "tasks"))
	}
	return "LMS deadline update"
}

func renderBody(tier notification.Tier, records, undated []deadline.Record) string {
	var b strings.Builder
	b.WriteString("Hello!\n\n")

	switch tier {
	case notification.TierAllClear:
		b.WriteString("No pending deadlines for today. Enjoy your day.\n")
	case notification.TierDueToday:
		b.WriteString("These tasks are due today:\n\n")
	case notification.TierDueTomorrow:
		b.WriteString("These tasks are due tomorrow:\n\n")
	case notification.TierDueIn2Days:
		b.WriteString("These tasks are due in two days:\n\n")
	case notification.TierFinalWarning:
		b.WriteString("Last call: these tasks are still due before midnight!\n\n")
	}

	writeRecords(&b, records)

	if len(undated) > 0 {
		b.WriteString("\nAlso pending (no deadline found):\n\n")
		writeRecords(&b, undated)
	}

	b.WriteString("\n— LMS notifier\n")
	return b.String()
}

func writeRecords(b *strings.Builder, records []deadline.Record) {
	for _, r := range records {
		b.WriteString("  - " + r.Name + " (" + r.Course + ")")
		if r.DueAt != nil {
			b.WriteString(" — due " + r.DueAt.Format("Mon, 02 Jan 15:04"))
		} else {
			b.WriteString(" — " + r.RawText)
		}
		b.WriteString("\n")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
