// Package real implements the embedding client backed by the OpenAI API.
package real

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/profrag/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/profrag/internal/adapter/observability"
	"github.com/fairyhunter13/profrag/internal/config"
	"github.com/fairyhunter13/profrag/internal/domain"
	obsctx "github.com/fairyhunter13/profrag/internal/observability"
	"github.com/fairyhunter13/profrag/internal/service/ratelimiter"
)

// EmbedBucket is the rate limiter key of embedding calls.
const EmbedBucket = "openai:embed"

var errRateLimited = errors.New("rate limited: 429")

// Client implements domain.Embedder using the OpenAI embeddings endpoint.
type Client struct {
	cfg     config.Config
	apiKey  string
	embedHC *http.Client
	counter *tokencount.Counter
	limiter ratelimiter.Limiter
}

// Option customises a Client.
type Option func(*Client)

// WithLimiter throttles every embedding attempt through lim under EmbedBucket.
func WithLimiter(lim ratelimiter.Limiter) Option {
	return func(c *Client) { c.limiter = lim }
}

var _ domain.Embedder = (*Client)(nil)

// readSnippet reads up to n bytes from r.
func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(b)
}

// New constructs an embedding client.
func New(cfg config.Config, apiKey string, opts ...Option) *Client {
	timeout := cfg.EmbedTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		cfg:     cfg,
		apiKey:  apiKey,
		embedHC: &http.Client{Timeout: timeout, Transport: observability.HTTPTransport("openai")},
		counter: tokencount.DefaultCounter,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// getBackoffConfig returns a configured ExponentialBackOff based on the current environment.
func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()

	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier

	return expo
}

type embedResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// EmbedOne sends exactly one text to the embeddings endpoint and returns its vector.
func (c *Client) EmbedOne(ctx domain.Context, text string) ([]float32, error) {
	if c.apiKey == "" || c.cfg.EmbeddingsModel == "" {
		// Do not log secrets; only indicate presence
		slog.Error("OpenAI API key or model missing", slog.String("provider", "openai"), slog.Bool("has_api_key", c.apiKey != ""), slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}
	if c.cfg.EmbedMaxTokens > 0 {
		if n, _ := c.counter.CountOrEstimate(text, c.cfg.EmbeddingsModel); n > c.cfg.EmbedMaxTokens {
			return nil, fmt.Errorf("%w: input has %d tokens, model limit is %d", domain.ErrInvalidArgument, n, c.cfg.EmbedMaxTokens)
		}
	}

	lg := obsctx.LoggerFromContext(ctx)
	endpoint := c.cfg.OpenAIBaseURL + "/embeddings"
	b, _ := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": []string{text},
	})

	var out embedResponse
	var lastErr error
	op := func() error {
		if err := ratelimiter.Wait(ctx, c.limiter, EmbedBucket, 1); err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.embedHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
		if err != nil {
			lastErr = err
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode == http.StatusTooManyRequests {
			// Retryable: let backoff handle retries
			lg.Warn("ai provider rate limited", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("openai_request_id", resp.Header.Get("X-Request-Id")))
			lastErr = errRateLimited
			return errRateLimited
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client error: non-retryable
			bodySnippet := readSnippet(resp.Body, 512)
			lg.Warn("ai provider 4xx", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.EmbeddingsModel), slog.String("endpoint", endpoint), slog.String("body", bodySnippet))
			lastErr = fmt.Errorf("embed status %d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// 5xx and others: retryable
			bodySnippet := readSnippet(resp.Body, 512)
			lg.Error("ai provider non-2xx", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.EmbeddingsModel), slog.String("endpoint", endpoint), slog.String("body", bodySnippet))
			lastErr = fmt.Errorf("embed status %d", resp.StatusCode)
			return lastErr
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = err
			return err
		}
		lg.Debug("embedding response", slog.String("provider", "openai"), slog.String("response", string(raw)))
		if err := json.Unmarshal(raw, &out); err != nil {
			lg.Error("ai provider decode error", slog.String("provider", "openai"), slog.String("op", "embed"), slog.String("model", c.cfg.EmbeddingsModel), slog.Any("error", err))
			lastErr = err
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.WithContext(c.getBackoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		lg.Error("OpenAI API failed after retries", slog.String("provider", "openai"), slog.Any("error", err))
		return nil, classify(ctx, lastErr, err)
	}

	if len(out.Data) == 0 {
		lg.Error("OpenAI API returned empty data", slog.String("provider", "openai"))
		return nil, fmt.Errorf("%w: empty data from OpenAI API", domain.ErrInternal)
	}

	lg.Debug("OpenAI API call successful", slog.String("provider", "openai"), slog.String("model", out.Model), slog.Int("prompt_tokens", out.Usage.PromptTokens))
	v := make([]float32, len(out.Data[0].Embedding))
	for j, f := range out.Data[0].Embedding {
		v[j] = float32(f)
	}
	return v, nil
}

// classify maps the terminal retry error onto the domain taxonomy.
func classify(ctx context.Context, last, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: openai api: %v", domain.ErrUpstreamTimeout, err)
	case errors.Is(last, errRateLimited):
		return fmt.Errorf("%w: openai api: %v", domain.ErrUpstreamRateLimit, err)
	default:
		return fmt.Errorf("openai api failed: %w", err)
	}
}
