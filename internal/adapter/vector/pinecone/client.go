// Package pinecone provides a minimal Pinecone HTTP client used by the seeder.
//
// The control plane (api.pinecone.io) lists, creates and describes indexes;
// the data plane lives on a per-index host discovered through describe-index.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/profrag/internal/adapter/observability"
	"github.com/fairyhunter13/profrag/internal/domain"
)

// DefaultAPIVersion is the Pinecone REST API version sent on every request.
const DefaultAPIVersion = "2024-07"

// Client is a minimal Pinecone HTTP client.
type Client struct {
	controlURL   string
	apiKey       string
	apiVersion   string
	indexHost    string
	readyTimeout time.Duration
	pollInterval time.Duration
	httpClient   *http.Client

	mu    sync.Mutex
	hosts map[string]string
}

var _ domain.VectorIndex = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithAPIVersion overrides the X-Pinecone-API-Version header.
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

// WithIndexHost pins the data-plane host instead of resolving it per index.
func WithIndexHost(host string) Option {
	return func(c *Client) { c.indexHost = host }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithReadyTimeout bounds WaitReady.
func WithReadyTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.readyTimeout = d
		}
	}
}

// WithPollInterval sets the initial WaitReady polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New constructs a Pinecone client for the given control-plane URL and API key.
func New(controlURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		controlURL:   strings.TrimRight(controlURL, "/"),
		apiKey:       apiKey,
		apiVersion:   DefaultAPIVersion,
		readyTimeout: 2 * time.Minute,
		pollInterval: time.Second,
		httpClient:   &http.Client{Timeout: 30 * time.Second, Transport: observability.HTTPTransport("pinecone")},
		hosts:        make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type indexModel struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// ListIndexes returns the names of all indexes in the project.
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	var out struct {
		Indexes []indexModel `json:"indexes"`
	}
	start := time.Now()
	_, err := c.do(ctx, "list_indexes", http.MethodGet, c.controlURL+"/indexes", nil, &out)
	observability.ObserveVectorRequest("list_indexes", start, err)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Indexes))
	for _, ix := range out.Indexes {
		names = append(names, ix.Name)
	}
	return names, nil
}

// CreateIndex creates a serverless index. An already-existing index is not an error.
func (c *Client) CreateIndex(ctx context.Context, spec domain.IndexSpec) error {
	payload := map[string]any{
		"name":      spec.Name,
		"dimension": spec.Dimension,
		"metric":    spec.Metric,
		"spec": map[string]any{
			"serverless": map[string]any{"cloud": spec.Cloud, "region": spec.Region},
		},
	}
	var out indexModel
	start := time.Now()
	status, err := c.do(ctx, "create_index", http.MethodPost, c.controlURL+"/indexes", payload, &out)
	if status == http.StatusConflict {
		err = nil
	}
	observability.ObserveVectorRequest("create_index", start, err)
	if err != nil {
		return err
	}
	if out.Host != "" {
		c.rememberHost(spec.Name, out.Host)
	}
	return nil
}

func (c *Client) describeIndex(ctx context.Context, name string) (indexModel, error) {
	var out indexModel
	start := time.Now()
	_, err := c.do(ctx, "describe_index", http.MethodGet, c.controlURL+"/indexes/"+url.PathEscape(name), nil, &out)
	observability.ObserveVectorRequest("describe_index", start, err)
	if err != nil {
		return indexModel{}, err
	}
	if out.Host != "" {
		c.rememberHost(name, out.Host)
	}
	return out, nil
}

// WaitReady polls describe-index until the index reports ready or the ready timeout elapses.
func (c *Client) WaitReady(ctx context.Context, name string) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.pollInterval
	expo.MaxInterval = 10 * c.pollInterval
	expo.MaxElapsedTime = c.readyTimeout
	op := func() error {
		ix, err := c.describeIndex(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				return backoff.Permanent(err)
			}
			return err
		}
		if !ix.Status.Ready {
			return fmt.Errorf("index %s not ready (state=%s)", name, ix.Status.State)
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return fmt.Errorf("op=pinecone.WaitReady: %w", err)
	}
	return nil
}

type upsertVector struct {
	ID       string              `json:"id"`
	Values   []float32           `json:"values"`
	Metadata domain.ItemMetadata `json:"metadata"`
}

// Upsert writes items into the namespace in one request and returns the upserted count.
func (c *Client) Upsert(ctx context.Context, index, namespace string, items []domain.IndexedItem) (int, error) {
	host, err := c.host(ctx, index)
	if err != nil {
		return 0, err
	}
	vectors := make([]upsertVector, 0, len(items))
	for _, it := range items {
		vectors = append(vectors, upsertVector{ID: it.ID, Values: it.Values, Metadata: it.Metadata})
	}
	body := map[string]any{"vectors": vectors, "namespace": namespace}
	var out struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	start := time.Now()
	_, err = c.do(ctx, "upsert", http.MethodPost, host+"/vectors/upsert", body, &out)
	observability.ObserveVectorRequest("upsert", start, err)
	if err != nil {
		return 0, err
	}
	return out.UpsertedCount, nil
}

// DescribeIndexStats returns index-level counts.
func (c *Client) DescribeIndexStats(ctx context.Context, index string) (domain.IndexStats, error) {
	host, err := c.host(ctx, index)
	if err != nil {
		return domain.IndexStats{}, err
	}
	var out domain.IndexStats
	start := time.Now()
	_, err = c.do(ctx, "describe_index_stats", http.MethodPost, host+"/describe_index_stats", map[string]any{}, &out)
	observability.ObserveVectorRequest("describe_index_stats", start, err)
	if err != nil {
		return domain.IndexStats{}, err
	}
	return out, nil
}

// host resolves the data-plane base URL of an index.
func (c *Client) host(ctx context.Context, index string) (string, error) {
	if c.indexHost != "" {
		return normalizeHost(c.indexHost), nil
	}
	c.mu.Lock()
	h, ok := c.hosts[index]
	c.mu.Unlock()
	if ok {
		return h, nil
	}
	ix, err := c.describeIndex(ctx, index)
	if err != nil {
		return "", fmt.Errorf("op=pinecone.host: %w", err)
	}
	if ix.Host == "" {
		return "", fmt.Errorf("%w: index %s has no host yet", domain.ErrNotFound, index)
	}
	return normalizeHost(ix.Host), nil
}

func (c *Client) rememberHost(index, host string) {
	c.mu.Lock()
	c.hosts[index] = normalizeHost(host)
	c.mu.Unlock()
}

func normalizeHost(h string) string {
	h = strings.TrimRight(h, "/")
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		h = "https://" + h
	}
	return h
}

// do sends a JSON request and decodes a 2xx JSON response into out.
// It returns the HTTP status (0 on transport errors).
func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any) (int, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("pinecone %s marshal: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return 0, fmt.Errorf("%w: pinecone %s: %v", domain.ErrInvalidArgument, op, err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pinecone %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, statusError(op, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return resp.StatusCode, fmt.Errorf("pinecone %s decode: %w", op, err)
		}
	}
	return resp.StatusCode, nil
}

func statusError(op string, status int, body string) error {
	base := fmt.Errorf("pinecone %s status %d: %s", op, status, body)
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, base)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %v", domain.ErrConflict, base)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimit, base)
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, base)
	default:
		return base
	}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}
	req.Header.Set("X-Pinecone-API-Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")
}
