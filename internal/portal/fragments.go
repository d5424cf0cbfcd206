package portal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Asimsayam/lms-automation-bot/internal/config"
	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
)

// collectFragments reduces the event nodes of a day view to opaque text
// fragments. All DOM knowledge stays here; the extractor only ever sees
// strings.
func collectFragments(doc *goquery.Document, cfg config.Portal) []deadline.Fragment {
	var frags []deadline.Fragment
	doc.Find(cfg.EventSelector).Each(func(_ int, s *goquery.Selection) {
		frags = append(frags, deadline.Fragment{
			Title:  flatten(s.Find(cfg.TitleSelector).First().Text()),
			Course: flatten(s.Find(cfg.CourseSelector).First().Text()),
			When:   flatten(s.Find(cfg.DateSelector).First().Text()),
			Text:   flatten(s.Text()),
		})
	})
	return frags
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
