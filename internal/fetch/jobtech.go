// Package fetch queries the JobTech (Arbetsförmedlingen) job-search API.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"jobsearcher/internal/config"
)

// Hit is the slice of a raw API hit the engine cares about. Unknown fields
// are dropped at decode time.
type Hit struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	EmploymentType struct {
		Label string `json:"label"`
	} `json:"employment_type"`
	PublicationDate     string `json:"publication_date"`
	ApplicationDeadline string `json:"application_deadline"`
	WebpageURL          string `json:"webpage_url"`
	WorkplaceAddress    struct {
		Municipality string `json:"municipality"`
		Region       string `json:"region"`
	} `json:"workplace_address"`
	OccupationGroup struct {
		Label string `json:"label"`
	} `json:"occupation_group"`

	QuerySource string `json:"-"` // tagged locally, not part of the API
}

type searchResponse struct {
	Hits []Hit `json:"hits"`
}

// Client fetches from one API host, rate-limited so the freetext fan-out
// doesn't hammer it.
type Client struct {
	cfg     config.Config
	hc      *http.Client
	limiter *rate.Limiter
}

func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.Search.RequestsPerSecond), 1),
	}
}

// freetext queries want exact AND matching, not the API's query expansion
var freetextHeaders = map[string]string{
	"x-feature-freetext-bool-method":   "and",
	"x-feature-disable-smart-freetext": "true",
}

type query struct {
	params  url.Values
	headers map[string]string
	source  string
}

// FetchAll runs the three query families — occupation groups within the
// configured geography, geography-filtered freetext, and nationwide remote
// freetext — and dedupes by ad id. Queries run concurrently but merge in
// config order, so the first query to surface an ad owns the source tag and
// the output order is stable between runs. Individual queries are
// best-effort; the fetch only fails when every query failed.
func (c *Client) FetchAll(ctx context.Context) ([]Hit, error) {
	var queries []query

	if len(c.cfg.Search.OccupationGroups) > 0 {
		params := c.geoParams()
		for _, g := range c.cfg.Search.OccupationGroups {
			params.Add("occupation-group", g)
		}
		queries = append(queries, query{params: params, source: "occupation_group"})
	}
	for _, q := range c.cfg.Search.Freetext {
		params := c.geoParams()
		params.Add("q", q)
		queries = append(queries, query{params: params, headers: freetextHeaders, source: "freetext:" + q})
	}
	for _, q := range c.cfg.Search.Freetext {
		// remote positions have no geography
		params := url.Values{}
		params.Add("q", q)
		params.Add("remote", "true")
		queries = append(queries, query{params: params, headers: freetextHeaders, source: "remote:" + q})
	}

	results := make([][]Hit, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	g.SetLimit(4)
	for i, q := range queries {
		g.Go(func() error {
			hits, err := c.search(ctx, q.params, q.headers)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", q.source, err)
				return nil // best-effort: don't cancel siblings
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	var firstErr error
	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failures == len(queries) && len(queries) > 0 {
		return nil, firstErr
	}

	// Merge in query order, first source wins the tag.
	seen := map[string]bool{}
	var out []Hit
	for i, hits := range results {
		for _, h := range hits {
			if h.ID == "" || seen[h.ID] {
				continue
			}
			seen[h.ID] = true
			h.QuerySource = queries[i].source
			out = append(out, h)
		}
	}
	return out, nil
}

func (c *Client) geoParams() url.Values {
	params := url.Values{}
	for _, geo := range c.cfg.Search.Geography {
		params.Add(geo.Param, geo.Code)
	}
	return params
}

func (c *Client) search(ctx context.Context, params url.Values, headers map[string]string) ([]Hit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("published-after", strconv.Itoa(c.cfg.Search.PublishedAfterMinutes))
	params.Set("limit", strconv.Itoa(c.cfg.Search.Limit))

	u := c.cfg.Search.BaseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobtech search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("jobtech search status %d", res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("jobtech decode: %w", err)
	}
	return sr.Hits, nil
}
