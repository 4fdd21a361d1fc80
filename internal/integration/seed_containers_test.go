//go:build integration

// Integration tests run the seeder against real Qdrant and Redis containers.
// Run with: go test -tags integration ./internal/integration/...

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	realai "github.com/fairyhunter13/profrag/internal/adapter/ai/real"
	qdrantcli "github.com/fairyhunter13/profrag/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/profrag/internal/config"
	"github.com/fairyhunter13/profrag/internal/domain"
	"github.com/fairyhunter13/profrag/internal/ragseed"
	"github.com/fairyhunter13/profrag/internal/service/ratelimiter"
)

func startContainer(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	p, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return host + ":" + p.Port()
}

// fakeEmbeddings answers every embeddings call with a 4-dimensional vector.
func fakeEmbeddings(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)
		n := float64(len(req.Input[0]))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "text-embedding-3-small",
			"data":  []map[string]any{{"index": 0, "embedding": []float64{n, 1, 0.5, 0.25}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func Test_Seed_Qdrant_WithRedisLimiter(t *testing.T) {
	ctx := context.Background()

	qdrantAddr := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "qdrant/qdrant:latest",
		ExposedPorts: []string{"6333/tcp"},
		WaitingFor:   wait.ForHTTP("/collections").WithPort("6333/tcp").WithStartupTimeout(90 * time.Second),
	}, "6333")
	redisAddr := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379")

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.Eventually(t, func() bool { return rdb.Ping(ctx).Err() == nil }, 30*time.Second, time.Second)
	lim := ratelimiter.New(rdb, map[string]ratelimiter.BucketConfig{
		realai.EmbedBucket: ratelimiter.NewBucketConfigFromPerMinute(600),
	})

	openai := fakeEmbeddings(t)
	cfg := config.Config{
		AppEnv:          "test",
		OpenAIBaseURL:   openai.URL,
		EmbeddingsModel: "text-embedding-3-small",
		EmbedTimeout:    5 * time.Second,
		EmbedMaxTokens:  8191,
	}
	emb := realai.New(cfg, "sk-test", realai.WithLimiter(lim))
	idx := qdrantcli.New("http://"+qdrantAddr, "")

	p := filepath.Join(t.TempDir(), "reviews.json")
	require.NoError(t, os.WriteFile(p, []byte(`{
  "MIT": [
    {"professor": "Smith", "subject": "CS", "review": "Great lecturer", "stars": 5},
    {"professor": "Jones", "subject": "EE", "review": "Too fast", "stars": 2}
  ],
  "CMU": [{"professor": "Lee", "subject": "AI", "review": "Fun projects", "stars": 4}]
}`), 0o600))

	opts := ragseed.Options{
		Index:       domain.IndexSpec{Name: "rag-prof-it", Dimension: 4, Metric: "cosine"},
		Namespace:   "ns1",
		ReviewsFile: p,
		Concurrency: 2,
	}

	res, err := ragseed.NewSeeder(idx, emb, opts).Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.IndexCreated)
	assert.Equal(t, 3, res.Upserted)
	require.NotNil(t, res.Stats)
	assert.Equal(t, int64(3), res.Stats.TotalVectorCount)
	assert.Empty(t, res.Warnings)

	// Re-seeding overwrites by id and does not recreate the collection.
	res, err = ragseed.NewSeeder(idx, emb, opts).Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.IndexCreated)
	require.NotNil(t, res.Stats)
	assert.Equal(t, int64(3), res.Stats.TotalVectorCount)
}
