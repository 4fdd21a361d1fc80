// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/fairyhunter13/profrag/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	EmbedTimeout    time.Duration `env:"EMBED_TIMEOUT" envDefault:"30s"`
	// EmbedMaxTokens is the per-input token limit of the embeddings model.
	EmbedMaxTokens int `env:"EMBED_MAX_TOKENS" envDefault:"8191"`
	// EmbedConcurrency caps in-flight embedding calls; 1 keeps the run strictly sequential.
	EmbedConcurrency int `env:"EMBED_CONCURRENCY" envDefault:"1"`
	// EmbedRateLimitPerMin throttles embedding calls through Redis; 0 or an empty REDIS_URL disables it.
	EmbedRateLimitPerMin int    `env:"EMBED_RATE_LIMIT_PER_MIN" envDefault:"0"`
	RedisURL             string `env:"REDIS_URL"`

	// VectorBackend selects the index service: "pinecone" (managed) or "qdrant" (self-hosted).
	VectorBackend string `env:"VECTOR_BACKEND" envDefault:"pinecone"`
	QdrantURL     string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`

	PineconeControlURL string        `env:"PINECONE_CONTROL_URL" envDefault:"https://api.pinecone.io"`
	PineconeAPIVersion string        `env:"PINECONE_API_VERSION" envDefault:"2024-07"`
	PineconeTimeout    time.Duration `env:"PINECONE_TIMEOUT" envDefault:"30s"`
	// PineconeIndexHost skips host discovery via describe-index when set.
	PineconeIndexHost string `env:"PINECONE_INDEX_HOST"`

	IndexName         string        `env:"INDEX_NAME" envDefault:"rag-prof-new"`
	IndexDimension    int           `env:"INDEX_DIMENSION" envDefault:"1536"`
	IndexMetric       string        `env:"INDEX_METRIC" envDefault:"cosine"`
	IndexCloud        string        `env:"INDEX_CLOUD" envDefault:"aws"`
	IndexRegion       string        `env:"INDEX_REGION" envDefault:"us-east-1"`
	IndexReadyTimeout time.Duration `env:"INDEX_READY_TIMEOUT" envDefault:"2m"`
	Namespace         string        `env:"NAMESPACE" envDefault:"ns1"`
	// UpsertBatchSize splits the bulk write; 0 sends every item in one request.
	UpsertBatchSize int    `env:"UPSERT_BATCH_SIZE" envDefault:"0"`
	ReviewsFile     string `env:"REVIEWS_FILE" envDefault:"reviews.json"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"profrag"`
	// PushgatewayURL receives run metrics at exit when set.
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`

	// AI Backoff Configuration
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"60s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"1s"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"10s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`
}

// Backends accepted by VECTOR_BACKEND.
const (
	BackendPinecone = "pinecone"
	BackendQdrant   = "qdrant"
)

// Credentials holds the service secrets. The embedding key is always
// mandatory; the index key is checked against the selected backend.
type Credentials struct {
	OpenAIAPIKey   string `env:"OPENAI_API_KEY,notEmpty"`
	PineconeAPIKey string `env:"PINECONE_API_KEY"`
	QdrantAPIKey   string `env:"QDRANT_API_KEY"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// LoadCredentials parses the service secrets required by backend.
func LoadCredentials(backend string) (Credentials, error) {
	var cr Credentials
	if err := env.Parse(&cr); err != nil {
		return Credentials{}, fmt.Errorf("op=config.LoadCredentials: %w", err)
	}
	switch backend {
	case BackendPinecone:
		if cr.PineconeAPIKey == "" {
			return Credentials{}, fmt.Errorf("op=config.LoadCredentials: %w: PINECONE_API_KEY missing", domain.ErrInvalidArgument)
		}
	case BackendQdrant:
		// self-hosted Qdrant may run without auth
	default:
		return Credentials{}, fmt.Errorf("op=config.LoadCredentials: %w: unknown VECTOR_BACKEND %q", domain.ErrInvalidArgument, backend)
	}
	return cr, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// IndexSpec returns the index provisioning parameters.
func (c Config) IndexSpec() domain.IndexSpec {
	return domain.IndexSpec{
		Name:      c.IndexName,
		Dimension: c.IndexDimension,
		Metric:    c.IndexMetric,
		Cloud:     c.IndexCloud,
		Region:    c.IndexRegion,
	}
}

// GetAIBackoffConfig returns backoff configuration appropriate for the current environment.
// In test environments, uses much shorter timeouts for faster test execution.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 10 * time.Millisecond, 100 * time.Millisecond, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
