package domain

// Ad is one canonical job advertisement after ingestion. Facets are carried
// through unchanged for storage and reporting; the scorer only looks at
// Headline, Employer and Description.
type Ad struct {
	ID                  string
	Headline            string
	Employer            string
	Description         string
	EmploymentType      string
	PublicationDate     string
	ApplicationDeadline string
	WebpageURL          string
	Municipality        string
	Region              string
	OccupationGroup     string
	QuerySource         string // which search query surfaced the ad
}

// SearchText builds the text the lexical scorer runs over.
func (a Ad) SearchText() string {
	return a.Headline + "\n" + a.Employer + "\n" + a.Description
}

// ScoredAd is an Ad plus its scoring state. Similarity stays nil for ads that
// were never semantically evaluated (degraded run or outside the candidate
// set), so callers can tell "not evaluated" from "evaluated, similarity 0".
type ScoredAd struct {
	Ad

	RawKeywordScore int
	KeywordRating   int // 1..10
	Similarity      *float64
	FinalScore      float64
}
