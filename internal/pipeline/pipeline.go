// Package pipeline wires one fetch → ingest → rank → store → report pass.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobsearcher/internal/config"
	"jobsearcher/internal/domain"
	"jobsearcher/internal/events"
	"jobsearcher/internal/fetch"
	"jobsearcher/internal/ingest"
	"jobsearcher/internal/rank"
	"jobsearcher/internal/report"
	"jobsearcher/internal/store"
)

// ErrCommit marks a run where scoring and storage succeeded but the results
// repo commit did not. Callers can surface it without rerunning anything.
var ErrCommit = errors.New("results commit failed")

type Fetcher interface {
	FetchAll(ctx context.Context) ([]fetch.Hit, error)
}

type Pipeline struct {
	DB      *sql.DB
	Cfg     config.Config
	Fetcher Fetcher
	Ranker  *rank.Ranker
	Hub     *events.Hub // optional, SSE notifications in serve mode

	ReportN    int    // ads in the written report, default 8
	OutputPath string // overrides the dated file in results_dir when set
	SkipReport bool
}

type Summary struct {
	Fetched            int
	Scored             int
	NewAds             int
	EmbeddingAvailable bool
	Status             string // success | partial | failed
	ReportPath         string
}

// RunOnce executes a full pass. Fetch failure is the only fatal outcome; a
// dead embedding provider degrades to keyword-only scoring and is recorded as
// a partial run.
func (p *Pipeline) RunOnce(ctx context.Context) (Summary, error) {
	p.publish(events.RunStarted())

	log.Printf("[fetch] querying jobtech API...")
	hits, err := p.Fetcher.FetchAll(ctx)
	if err != nil {
		p.recordRun(ctx, Summary{Status: "failed"})
		p.publish(events.RunCompleted(0, 0, false, "failed"))
		return Summary{Status: "failed"}, fmt.Errorf("fetch: %w", err)
	}
	log.Printf("[fetch] got %d ads", len(hits))

	if len(hits) == 0 {
		log.Printf("[fetch] no ads found (may be weekend/holiday)")
		sum := Summary{Status: "success"}
		p.recordRun(ctx, sum)
		p.publish(events.RunCompleted(0, 0, false, "success"))
		return sum, nil
	}

	ads := ingest.Ads(hits)

	log.Printf("[rank] scoring %d ads...", len(ads))
	// Rank everything; the report shortlist is cut later so the store sees
	// every ad's final score.
	ranked, embAvailable := p.Ranker.Rank(ctx, ads, p.profileText(), p.Cfg.Scoring.TopN, len(ads))

	sum := Summary{
		Fetched:            len(hits),
		Scored:             len(ranked),
		EmbeddingAvailable: embAvailable,
		Status:             "success",
	}
	if !embAvailable {
		sum.Status = "partial"
	}

	added, err := store.UpsertAds(ctx, p.DB, ranked)
	if err != nil {
		log.Printf("[store] upsert error: %v", err)
	}
	sum.NewAds = added
	log.Printf("[store] %d new ads, %d updated", added, len(ranked)-added)

	p.recordRun(ctx, sum)

	shortlist := ranked
	reportN := p.ReportN
	if reportN <= 0 {
		reportN = 8
	}
	if len(shortlist) > reportN {
		shortlist = shortlist[:reportN]
	}

	for _, ad := range shortlist[:min(5, len(shortlist))] {
		if ad.Similarity != nil {
			log.Printf("[rank]   kw=%d sim=%.3f — %s", ad.KeywordRating, *ad.Similarity, ad.Headline)
		} else {
			log.Printf("[rank]   kw=%d — %s", ad.KeywordRating, ad.Headline)
		}
	}

	p.publish(events.RunCompleted(sum.Fetched, sum.Scored, embAvailable, sum.Status))

	if p.SkipReport {
		return sum, nil
	}

	now := time.Now()
	path, err := p.writeReport(shortlist, embAvailable, now)
	if err != nil {
		log.Printf("[report] write error: %v", err)
		return sum, nil
	}
	sum.ReportPath = path
	log.Printf("[report] written to %s", path)

	if p.OutputPath == "" && p.Cfg.App.ResultsDir != "" {
		if err := report.Commit(p.Cfg.App.ResultsDir, path, now); err != nil {
			return sum, fmt.Errorf("%w: %v", ErrCommit, err)
		}
		log.Printf("[report] committed to git")
	}
	return sum, nil
}

func (p *Pipeline) writeReport(shortlist []domain.ScoredAd, embAvailable bool, now time.Time) (string, error) {
	if p.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(p.OutputPath), 0o755); err != nil {
			return "", err
		}
		md := report.Render(shortlist, embAvailable, now)
		if err := os.WriteFile(p.OutputPath, []byte(md), 0o644); err != nil {
			return "", err
		}
		return p.OutputPath, nil
	}
	return report.Write(p.Cfg.App.ResultsDir, shortlist, embAvailable, now)
}

func (p *Pipeline) profileText() string {
	path := p.Cfg.Profile.File
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(filepath.Join(p.Cfg.App.DataDir, path)); err == nil {
			path = filepath.Join(p.Cfg.App.DataDir, path)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[rank] profile %s not readable, keyword-only scoring: %v", path, err)
		return ""
	}
	return string(b)
}

func (p *Pipeline) recordRun(ctx context.Context, sum Summary) {
	err := store.RecordRun(ctx, p.DB, store.Run{
		TotalFetched:       sum.Fetched,
		TotalScored:        sum.Scored,
		EmbeddingAvailable: sum.EmbeddingAvailable,
		Status:             sum.Status,
	})
	if err != nil {
		log.Printf("[store] record run: %v", err)
	}
}

func (p *Pipeline) publish(evt string) {
	if p.Hub != nil {
		p.Hub.Publish(evt)
	}
}
