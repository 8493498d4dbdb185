// Package report renders the ranked shortlist as markdown and commits it to
// the results repository.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobsearcher/internal/domain"
)

// Render builds the results markdown. The methodology line surfaces whether
// the run was hybrid or keyword-only — the ranking means different things in
// the two modes and the reader needs to know which one they are looking at.
func Render(ranked []domain.ScoredAd, embeddingAvailable bool, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Job search results — %s\n\n", date.Format("2006-01-02"))
	if embeddingAvailable {
		b.WriteString("Ranked by combined keyword + embedding similarity score.\n\n")
	} else {
		b.WriteString("Ranked by keyword score only (embedding unavailable).\n\n")
	}

	b.WriteString("| Rank | Headline | Company | KW | Sim | URL |\n")
	b.WriteString("|------|----------|---------|-----|-----|-----|\n")

	for i, ad := range ranked {
		sim := "—"
		if ad.Similarity != nil {
			sim = fmt.Sprintf("%.3f", *ad.Similarity)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s | %s |\n",
			i+1, escapePipes(ad.Headline), escapePipes(ad.Employer),
			ad.KeywordRating, sim, ad.WebpageURL)
	}
	return b.String()
}

// Write renders and writes the report into dir as YYYY-MM-DD-results.md,
// creating the directory if needed. Returns the file path.
func Write(dir string, ranked []domain.ScoredAd, embeddingAvailable bool, date time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, date.Format("2006-01-02")+"-results.md")
	if err := os.WriteFile(path, []byte(Render(ranked, embeddingAvailable, date)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
