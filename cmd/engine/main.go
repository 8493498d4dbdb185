package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"jobsearcher/internal/config"
	"jobsearcher/internal/embed"
	"jobsearcher/internal/events"
	"jobsearcher/internal/fetch"
	"jobsearcher/internal/httpapi"
	"jobsearcher/internal/pipeline"
	"jobsearcher/internal/rank"
	"jobsearcher/internal/scheduler"
	"jobsearcher/internal/secrets"
	"jobsearcher/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgFlag  = flag.String("config", "", "config file (default: <data-dir>/config.yml, bootstrapped from config/config.yml)")
		dataDir  = flag.String("data-dir", "", "data directory (default: $JOBSEARCHER_DATA_DIR or .)")
		output   = flag.String("output", "", "report file path (overrides the dated file in results_dir)")
		topN     = flag.Int("top-n", 0, "ads to embed after keyword filter (overrides config)")
		finalN   = flag.Int("final", 0, "ads in the report (overrides config)")
		noEmbed  = flag.Bool("no-embed", false, "skip embedding, rank by keyword score only")
		noReport = flag.Bool("no-report", false, "skip writing the markdown report")
		watch    = flag.Duration("watch", 0, "re-run on this interval and serve the HTTP API (0 = one-shot)")
		addr     = flag.String("addr", "", "HTTP listen address in watch mode (overrides config)")
	)
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("JOBSEARCHER_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[main] data dir: %v", err)
		return 1
	}

	// One run at a time: cron and a manual invocation must not race the
	// sqlite writer.
	lock := flock.New(filepath.Join(dir, "jobsearcher.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		log.Printf("[main] lock: %v", err)
		return 1
	}
	if !ok {
		log.Printf("[main] another run is in progress, exiting")
		return 1
	}
	defer func() { _ = lock.Unlock() }()

	cfgPath := *cfgFlag
	if cfgPath == "" {
		cfgPath, err = config.EnsureUserConfig(dir, filepath.Join("config", "config.yml"))
		if err != nil {
			log.Printf("[main] config bootstrap failed: %v", err)
			return 1
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[main] config load failed (%s): %v", cfgPath, err)
		return 1
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = dir
	}
	if cfg.App.ResultsDir == "" {
		home, _ := os.UserHomeDir()
		cfg.App.ResultsDir = filepath.Join(home, "job-results")
	}
	if *topN > 0 {
		cfg.Scoring.TopN = *topN
	}
	if *finalN > 0 {
		cfg.Scoring.FinalN = *finalN
	}
	if *addr != "" {
		cfg.App.Addr = *addr
	}

	v := config.Validate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !v.OK() {
		for _, e := range v.Errors {
			log.Printf("[config] error: %s", e)
		}
		return 1
	}

	// Relative stopword paths prefer the data dir, falling back to the
	// working dir where the shipped defaults live.
	stopPath := cfg.Scoring.StopwordsFile
	if stopPath != "" && !filepath.IsAbs(stopPath) {
		if _, serr := os.Stat(filepath.Join(cfg.App.DataDir, stopPath)); serr == nil {
			stopPath = filepath.Join(cfg.App.DataDir, stopPath)
		}
	}
	stopwords, err := config.LoadStopwords(stopPath)
	if err != nil {
		log.Printf("[config] stopwords: %v", err)
		return 1
	}

	db, err := store.Open(filepath.Join(dir, "jobsearcher.db"))
	if err != nil {
		log.Printf("[store] open: %v", err)
		return 1
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Printf("[store] migrate: %v", err)
		return 1
	}

	var provider rank.Provider
	if !*noEmbed && cfg.Embedding.Enabled && cfg.Embedding.BaseURL != "" {
		provider = embed.NewClient(embed.Options{
			BaseURL:  cfg.Embedding.BaseURL,
			APIKey:   secrets.EmbedAPIKey(cfg.Embedding.KeyringAccount),
			Model:    cfg.Embedding.Model,
			MaxChars: cfg.Embedding.MaxChars,
			Timeout:  time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		})
	}

	hub := events.NewHub()
	p := &pipeline.Pipeline{
		DB:      db.Pool,
		Cfg:     cfg,
		Fetcher: fetch.New(cfg),
		Ranker: &rank.Ranker{
			Scorer:   rank.LexiconScorer{Lex: cfg.Scoring.Lexicon, Stopwords: stopwords},
			Provider: provider,
			Weights: rank.Weights{
				Keyword:     cfg.Scoring.KeywordWeight,
				Similarity:  cfg.Scoring.SimilarityWeight,
				SkipPenalty: cfg.Scoring.SkipPenalty,
			},
			Concurrency: cfg.Embedding.Concurrency,
		},
		Hub:        hub,
		ReportN:    cfg.Scoring.FinalN,
		OutputPath: *output,
		SkipReport: *noReport,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch > 0 {
		return serve(ctx, cfg, hub, p, *watch)
	}

	_, err = p.RunOnce(ctx)
	switch {
	case errors.Is(err, pipeline.ErrCommit):
		log.Printf("[main] %v", err)
		return 4
	case err != nil:
		log.Printf("[main] %v", err)
		return 2
	}
	return 0
}

func serve(ctx context.Context, cfg config.Config, hub *events.Hub, p *pipeline.Pipeline, interval time.Duration) int {
	handler := httpapi.Chain(
		httpapi.NewMux(httpapi.Deps{
			DB:      p.DB,
			Hub:     hub,
			RunOnce: p.RunOnce,
		}),
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
	)

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("[http] listening on http://%s", cfg.App.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[http] %v", err)
		}
	}()

	scheduler.Every(ctx, interval, "pipeline", func(ctx context.Context) error {
		_, err := p.RunOnce(ctx)
		return err
	})

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)
	return 0
}
