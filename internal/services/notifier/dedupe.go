package notifier

import "github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"

// Dedupe drops later duplicates by normalized (name, raw text) key,
// keeping first-seen order. Overlapping day views can otherwise list the
// same task twice.
func Dedupe(recs []deadline.Record) []deadline.Record {
	if len(recs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(recs))
	out := make([]deadline.Record, 0, len(recs))
	for _, rec := range recs {
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
