package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrUnavailable covers every way the provider can fail us: connection
// refused, timeout, non-2xx, malformed body. Callers check it with errors.Is
// and degrade; nothing at this layer retries.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Client talks to an OpenAI-compatible /v1/embeddings endpoint (a local
// llama.cpp style server in the default setup).
type Client struct {
	api      openai.Client
	model    string
	maxChars int
}

type Options struct {
	BaseURL  string
	APIKey   string // optional, local servers usually need none
	Model    string
	MaxChars int           // request size ceiling, default 2000 chars
	Timeout  time.Duration // per request, default 30s
}

func NewClient(opts Options) *Client {
	if opts.MaxChars <= 0 {
		opts.MaxChars = 2000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	clientOpts := []option.RequestOption{
		option.WithMaxRetries(0), // retry policy lives in the transport, not here
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	return &Client{
		api:      openai.NewClient(clientOpts...),
		model:    opts.Model,
		maxChars: opts.MaxChars,
	}
}

// Embed returns the embedding vector for text, truncated to the provider's
// request-size ceiling first. Truncation happens after the caller has
// stopword-stripped, so the leading, information-dense part survives.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	text = Truncate(text, c.maxChars)

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrUnavailable)
	}
	return resp.Data[0].Embedding, nil
}

// Truncate cuts s to at most maxChars characters (runes, not bytes — the ads
// are Swedish).
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars])
}
