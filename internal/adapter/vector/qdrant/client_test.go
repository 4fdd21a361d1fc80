package qdrant_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/profrag/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/profrag/internal/domain"
)

func TestClient_CreateIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		metric       string
		wantDistance string
		status       int
		wantErr      bool
	}{
		{name: "cosine", metric: "cosine", wantDistance: "Cosine", status: http.StatusOK},
		{name: "dotproduct", metric: "dotproduct", wantDistance: "Dot", status: http.StatusOK},
		{name: "euclidean", metric: "euclidean", wantDistance: "Euclid", status: http.StatusOK},
		{name: "server error", metric: "cosine", wantDistance: "Cosine", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/collections/rag-prof-new", r.URL.Path)
				assert.Equal(t, "test-api-key", r.Header.Get("api-key"))

				var payload map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				vectors := payload["vectors"].(map[string]any)
				assert.Equal(t, float64(1536), vectors["size"])
				assert.Equal(t, tt.wantDistance, vectors["distance"])
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := qdrant.New(server.URL, "test-api-key").CreateIndex(context.Background(), domain.IndexSpec{
				Name: "rag-prof-new", Dimension: 1536, Metric: tt.metric,
			})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestClient_ListIndexes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":{"collections":[{"name":"rag-prof-new"},{"name":"scratch"}]},"status":"ok"}`))
	}))
	defer server.Close()

	names, err := qdrant.New(server.URL, "").ListIndexes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"rag-prof-new", "scratch"}, names)
}

func TestClient_Upsert(t *testing.T) {
	t.Parallel()

	items := []domain.IndexedItem{
		{ID: "MIT - Smith", Values: []float32{0.1, 0.2}, Metadata: domain.ItemMetadata{Review: "Great lecturer", Subject: "CS", Stars: 5, University: "MIT"}},
		{ID: "MIT - Jones", Values: []float32{0.3, 0.4}, Metadata: domain.ItemMetadata{Review: "Boring", Subject: "EE", Stars: 2, University: "MIT"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/rag-prof-new/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))

		var payload struct {
			Points []struct {
				ID      string         `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Points, 2)

		_, err := uuid.Parse(payload.Points[0].ID)
		require.NoError(t, err, "point id must be a UUID")
		assert.Equal(t, qdrant.PointID("ns1", "MIT - Smith"), payload.Points[0].ID)
		assert.Equal(t, "MIT - Smith", payload.Points[0].Payload["item_id"])
		assert.Equal(t, "ns1", payload.Points[0].Payload["namespace"])
		assert.Equal(t, "MIT", payload.Points[0].Payload["university"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":{"operation_id":1,"status":"completed"},"status":"ok"}`))
	}))
	defer server.Close()

	n, err := qdrant.New(server.URL, "").Upsert(context.Background(), "rag-prof-new", "ns1", items)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClient_DescribeIndexStats(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":{"status":"green","points_count":42,"config":{"params":{"vectors":{"size":1536,"distance":"Cosine"}}}}}`))
	}))
	defer server.Close()

	stats, err := qdrant.New(server.URL, "").DescribeIndexStats(context.Background(), "rag-prof-new")
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalVectorCount)
	assert.Equal(t, 1536, stats.Dimension)
}

func TestClient_WaitReady_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := qdrant.New(server.URL, "").WaitReady(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPointID_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, qdrant.PointID("ns1", "MIT - Smith"), qdrant.PointID("ns1", "MIT - Smith"))
	assert.NotEqual(t, qdrant.PointID("ns1", "MIT - Smith"), qdrant.PointID("ns1", "MIT - Jones"))
	assert.NotEqual(t, qdrant.PointID("ns1", "MIT - Smith"), qdrant.PointID("ns2", "MIT - Smith"))
	assert.NotEqual(t, qdrant.PointID("ns", "1MIT - Smith"), qdrant.PointID("ns1", "MIT - Smith"))
}

func TestClient_Upsert_NamespacesDoNotCollide(t *testing.T) {
	t.Parallel()

	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Points []struct {
				ID string `json:"id"`
			} `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		for _, p := range payload.Points {
			ids = append(ids, p.ID)
		}
		_, _ = w.Write([]byte(`{"result":{"status":"completed"},"status":"ok"}`))
	}))
	defer server.Close()

	c := qdrant.New(server.URL, "")
	items := []domain.IndexedItem{{ID: "MIT - Smith", Values: []float32{0.1, 0.2}}}
	_, err := c.Upsert(context.Background(), "rag-prof-new", "ns1", items)
	require.NoError(t, err)
	_, err = c.Upsert(context.Background(), "rag-prof-new", "ns2", items)
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}
