// Package qdrant provides a minimal Qdrant HTTP client used as a self-hosted
// alternative to the managed index.
//
// Collections stand in for indexes. Qdrant has no namespaces, so the namespace
// and the item id travel in the point payload. Point ids are UUIDv5 digests of
// namespace and item id (Qdrant accepts only UUIDs or integers), so one item id
// written to two namespaces lands in two points.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/profrag/internal/adapter/observability"
	"github.com/fairyhunter13/profrag/internal/domain"
)

// pointNamespace seeds the UUIDv5 point ids.
var pointNamespace = uuid.MustParse("6f1c54a8-3f57-4c2e-9a55-0d5f0c1b7e21")

// Client is a minimal Qdrant HTTP client used by the app.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ domain.VectorIndex = (*Client)(nil)

// New constructs a Qdrant client with baseURL and optional apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second, Transport: observability.HTTPTransport("qdrant")},
	}
}

// PointID returns the deterministic Qdrant point id of itemID within namespace.
func PointID(namespace, itemID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(namespace+"\x00"+itemID)).String()
}

// distance maps index metrics onto Qdrant distance names.
func distance(metric string) string {
	switch strings.ToLower(metric) {
	case "dotproduct", "dot":
		return "Dot"
	case "euclidean", "euclid":
		return "Euclid"
	default:
		return "Cosine"
	}
}

// ListIndexes returns the collection names.
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	start := time.Now()
	var out struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/collections", nil, &out)
	observability.ObserveVectorRequest("list_indexes", start, err)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Result.Collections))
	for _, col := range out.Result.Collections {
		names = append(names, col.Name)
	}
	return names, nil
}

// CreateIndex creates the collection; cloud placement does not apply to Qdrant.
func (c *Client) CreateIndex(ctx context.Context, spec domain.IndexSpec) error {
	start := time.Now()
	payload := map[string]any{
		"vectors": map[string]any{"size": spec.Dimension, "distance": distance(spec.Metric)},
	}
	err := c.doJSON(ctx, http.MethodPut, "/collections/"+url.PathEscape(spec.Name), payload, nil)
	observability.ObserveVectorRequest("create_index", start, err)
	return err
}

// WaitReady returns once the collection answers; Qdrant creates collections synchronously.
func (c *Client) WaitReady(ctx context.Context, name string) error {
	start := time.Now()
	err := c.doJSON(ctx, http.MethodGet, "/collections/"+url.PathEscape(name), nil, nil)
	observability.ObserveVectorRequest("describe_index", start, err)
	return err
}

// Upsert inserts or updates points and reports how many were written.
func (c *Client) Upsert(ctx context.Context, index, namespace string, items []domain.IndexedItem) (int, error) {
	points := make([]map[string]any, 0, len(items))
	for _, it := range items {
		points = append(points, map[string]any{
			"id":     PointID(namespace, it.ID),
			"vector": it.Values,
			"payload": map[string]any{
				"item_id":    it.ID,
				"namespace":  namespace,
				"review":     it.Metadata.Review,
				"subject":    it.Metadata.Subject,
				"stars":      it.Metadata.Stars,
				"university": it.Metadata.University,
			},
		})
	}
	start := time.Now()
	err := c.doJSON(ctx, http.MethodPut, "/collections/"+url.PathEscape(index)+"/points?wait=true", map[string]any{"points": points}, nil)
	observability.ObserveVectorRequest("upsert", start, err)
	if err != nil {
		return 0, err
	}
	return len(points), nil
}

// DescribeIndexStats reports the collection's point count and vector size.
func (c *Client) DescribeIndexStats(ctx context.Context, index string) (domain.IndexStats, error) {
	start := time.Now()
	var out struct {
		Result struct {
			PointsCount int64 `json:"points_count"`
			Config      struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/collections/"+url.PathEscape(index), nil, &out)
	observability.ObserveVectorRequest("describe_index_stats", start, err)
	if err != nil {
		return domain.IndexStats{}, err
	}
	return domain.IndexStats{
		Dimension:        out.Result.Config.Params.Vectors.Size,
		TotalVectorCount: out.Result.PointsCount,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: qdrant %s %s: %v", domain.ErrInvalidArgument, method, path, err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: qdrant %s %s", domain.ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("qdrant decode: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
