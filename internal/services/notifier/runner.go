package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
	"github.com/Asimsayam/lms-automation-bot/internal/domain/notification"
)

// The portal is queried for today and the two following days.
const lookaheadDays = 3

var (
	mRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_notifier_runs_total", Help: "Pipeline runs started",
	})
	mRunErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_notifier_run_errors_total", Help: "Runs aborted by a fatal step",
	})
	mRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_notifier_records_extracted_total", Help: "Pending records extracted",
	})
	mSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_notifier_fragments_skipped_total", Help: "Malformed fragments skipped",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_notifier_emails_sent_total", Help: "Notifications dispatched",
	})
)

// Runner executes one full stateless run: login, three day-view fetches,
// extraction, dedupe, classification, tier selection and at most one
// dispatch, in strict sequence.
type Runner struct {
	log    *zap.Logger
	portal deadline.Portal
	ext    *Extractor
	disp   *Dispatcher
	clock  notification.Clock
	loc    *time.Location
}

func NewRunner(
	log *zap.Logger,
	portal deadline.Portal,
	ext *Extractor,
	disp *Dispatcher,
	clock notification.Clock,
	loc *time.Location,
) *Runner {
	return &Runner{
		log:    log.With(zap.String("component", "notifier.runner")),
		portal: portal,
		ext:    ext,
		disp:   disp,
		clock:  clock,
		loc:    loc,
	}
}

// RunOnce evaluates the pipeline against a single timestamp taken at
// entry. Session and transport failures abort the run with no email sent;
// extraction failures only shrink the report.
func (r *Runner) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	log := r.log.With(zap.String("run_id", runID))

	tr := otel.Tracer("notifier.runner")
	ctx, span := tr.Start(ctx, "notifier.run",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
	defer span.End()

	mRuns.Inc()

	// One timestamp for the whole run: every classification below must
	// agree on what "today" is.
	now := r.clock.Now().In(r.loc)
	log.Info("run started", zap.Time("now", now), zap.Int("hour", now.Hour()))

	if err := r.portal.Login(ctx); err != nil {
		mRunErrors.Inc()
		span.RecordError(err)
		log.Warn("portal login failed", zap.Error(err))
		return fmt.Errorf("portal login: %w", err)
	}

	frags, err := r.fetchDays(ctx, tr, now)
	if err != nil {
		mRunErrors.Inc()
		span.RecordError(err)
		log.Warn("calendar fetch failed", zap.Error(err))
		return err
	}

	res := r.ext.Extract(frags, now)
	mRecords.Add(float64(len(res.Records)))
	mSkipped.Add(float64(res.Skipped))
	if res.Skipped > 0 {
		log.Warn("malformed fragments skipped", zap.Int("skipped", res.Skipped))
	}

	records := Dedupe(res.Records)
	buckets := Partition(records, now)

	present := make(map[deadline.Bucket]bool, len(buckets))
	for b, rs := range buckets {
		present[b] = len(rs) > 0
	}

	log.Info("records classified",
		zap.Int("fragments", len(frags)),
		zap.Int("pending", len(records)),
		zap.Int("submitted", res.Submitted),
		zap.Int("due_today", len(buckets[deadline.BucketDueToday])),
		zap.Int("due_tomorrow", len(buckets[deadline.BucketDueTomorrow])),
		zap.Int("due_in_2_days", len(buckets[deadline.BucketDueIn2Days])),
		zap.Int("overdue", len(buckets[deadline.BucketOverdue])),
		zap.Int("unclassified", len(buckets[deadline.BucketUnclassified])),
	)

	tier, ok := SelectTier(now.Hour(), present)
	if !ok {
		log.Info("no notification for this window", zap.Int("hour", now.Hour()))
		return nil
	}
	span.SetAttributes(attribute.String("tier", tier.String()))

	var main, undated []deadline.Record
	if b, dated := TierBucket(tier); dated {
		main = buckets[b]
		undated = buckets[deadline.BucketUnclassified]
	}

	ctxSend, sendSpan := tr.Start(ctx, "notifier.dispatch")
	err = r.disp.Dispatch(ctxSend, tier, main, undated)
	sendSpan.End()
	if err != nil {
		mRunErrors.Inc()
		span.RecordError(err)
		return err
	}
	mSent.Inc()
	return nil
}

// fetchDays pulls the today / +1 / +2 day views sequentially with the one
// authenticated session. Any fetch failure aborts the run before
// classification starts.
func (r *Runner) fetchDays(ctx context.Context, tr trace.Tracer, now time.Time) ([]deadline.Fragment, error) {
	var frags []deadline.Fragment
	for i := 0; i < lookaheadDays; i++ {
		day := now.AddDate(0, 0, i)
		ctxDay, span := tr.Start(ctx, "notifier.fetch_day",
			trace.WithAttributes(attribute.String("day", day.Format("2006-01-02"))),
		)
		fs, err := r.portal.DayEvents(ctxDay, day)
		if err != nil {
			span.RecordError(err)
			span.End()
			return nil, fmt.Errorf("fetch day view +%d: %w", i, err)
		}
		span.SetAttributes(attribute.Int("fragments", len(fs)))
		span.End()
		frags = append(frags, fs...)
	}
	return frags, nil
}
