package config

import (
	"bufio"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the tiered keyword sets used for lexical scoring. Phrases are
// matched case-insensitively as substrings. Context terms soften negative
// penalties (1 point instead of 3) when present anywhere in the ad text.
type Lexicon struct {
	High     []string `yaml:"high"`   // 3 points each
	Medium   []string `yaml:"medium"` // 2 points each
	Low      []string `yaml:"low"`    // 1 point each
	Negative []string `yaml:"negative"`
	Context  []string `yaml:"context"`
}

func (l Lexicon) Empty() bool {
	return len(l.High) == 0 && len(l.Medium) == 0 && len(l.Low) == 0
}

type GeoFilter struct {
	Param string `yaml:"param"` // region | municipality
	Code  string `yaml:"code"`
}

type Config struct {
	App struct {
		DataDir    string `yaml:"data_dir"`
		ResultsDir string `yaml:"results_dir"`
		Addr       string `yaml:"addr"`
	} `yaml:"app"`

	Search struct {
		BaseURL               string      `yaml:"base_url"`
		PublishedAfterMinutes int         `yaml:"published_after_minutes"`
		Limit                 int         `yaml:"limit"`
		RequestsPerSecond     float64     `yaml:"requests_per_second"`
		Geography             []GeoFilter `yaml:"geography"`
		OccupationGroups      []string    `yaml:"occupation_groups"`
		Freetext              []string    `yaml:"freetext"`
	} `yaml:"search"`

	Scoring struct {
		TopN             int     `yaml:"top_n"`
		FinalN           int     `yaml:"final_n"`
		KeywordWeight    float64 `yaml:"keyword_weight"`
		SimilarityWeight float64 `yaml:"similarity_weight"`
		SkipPenalty      float64 `yaml:"skip_penalty"`
		StopwordsFile    string  `yaml:"stopwords_file"`
		Lexicon          Lexicon `yaml:"lexicon"`
	} `yaml:"scoring"`

	Embedding struct {
		Enabled        bool   `yaml:"enabled"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		MaxChars       int    `yaml:"max_chars"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Concurrency    int    `yaml:"concurrency"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"embedding"`

	Profile struct {
		File string `yaml:"file"`
	} `yaml:"profile"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Addr == "" {
		c.App.Addr = "127.0.0.1:38471"
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://jobsearch.api.jobtechdev.se"
	}
	if c.Search.PublishedAfterMinutes <= 0 {
		c.Search.PublishedAfterMinutes = 1440
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 50
	}
	if c.Search.RequestsPerSecond <= 0 {
		c.Search.RequestsPerSecond = 2
	}
	if c.Scoring.TopN <= 0 {
		c.Scoring.TopN = 20
	}
	if c.Scoring.FinalN <= 0 {
		c.Scoring.FinalN = 8
	}
	if c.Scoring.KeywordWeight == 0 {
		c.Scoring.KeywordWeight = 0.4
	}
	if c.Scoring.SimilarityWeight == 0 {
		c.Scoring.SimilarityWeight = 0.6
	}
	if c.Scoring.SkipPenalty == 0 {
		c.Scoring.SkipPenalty = 0.4
	}
	if c.Embedding.MaxChars <= 0 {
		c.Embedding.MaxChars = 2000
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		c.Embedding.TimeoutSeconds = 30
	}
	if c.Embedding.Concurrency <= 0 {
		c.Embedding.Concurrency = 4
	}
}

// LoadStopwords reads one stopword per line. A missing file is a silent
// degrade (empty set), not an error.
func LoadStopwords(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	defer f.Close()

	words := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[strings.ToLower(w)] = true
	}
	return words, sc.Err()
}
