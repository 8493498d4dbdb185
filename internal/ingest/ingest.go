// Package ingest converts raw API hits into the engine's canonical ad shape.
package ingest

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsearcher/internal/domain"
	"jobsearcher/internal/fetch"
)

// Ads converts hits to canonical ads. Hits missing an id or description text
// are malformed — they get logged and dropped here so the ranking engine
// never sees them.
func Ads(hits []fetch.Hit) []domain.Ad {
	out := make([]domain.Ad, 0, len(hits))
	for _, h := range hits {
		ad, ok := Ad(h)
		if !ok {
			log.Printf("[ingest] dropping malformed hit id=%q headline=%q", h.ID, h.Headline)
			continue
		}
		out = append(out, ad)
	}
	return out
}

// Ad converts one hit. ok is false when required fields are missing.
func Ad(h fetch.Hit) (domain.Ad, bool) {
	desc := stripHTML(h.Description.Text)
	if strings.TrimSpace(h.ID) == "" || strings.TrimSpace(desc) == "" {
		return domain.Ad{}, false
	}

	return domain.Ad{
		ID:                  h.ID,
		Headline:            h.Headline,
		Employer:            h.Employer.Name,
		Description:         desc,
		EmploymentType:      h.EmploymentType.Label,
		PublicationDate:     h.PublicationDate,
		ApplicationDeadline: h.ApplicationDeadline,
		WebpageURL:          h.WebpageURL,
		Municipality:        h.WorkplaceAddress.Municipality,
		Region:              h.WorkplaceAddress.Region,
		OccupationGroup:     h.OccupationGroup.Label,
		QuerySource:         h.QuerySource,
	}, true
}

// stripHTML flattens markup some employers paste into the description field.
// Plain text passes through untouched.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
