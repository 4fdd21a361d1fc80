package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	realai "github.com/fairyhunter13/profrag/internal/adapter/ai/real"
	"github.com/fairyhunter13/profrag/internal/adapter/observability"
	"github.com/fairyhunter13/profrag/internal/adapter/vector/pinecone"
	qdrantcli "github.com/fairyhunter13/profrag/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/profrag/internal/config"
	"github.com/fairyhunter13/profrag/internal/domain"
	obsctx "github.com/fairyhunter13/profrag/internal/observability"
	"github.com/fairyhunter13/profrag/internal/ragseed"
	"github.com/fairyhunter13/profrag/internal/service/ratelimiter"
)

const metricsJob = "profrag"

type rootFlags struct {
	file        string
	index       string
	namespace   string
	concurrency int
	batchSize   int
	strict      bool
	dryRun      bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "profrag",
		Short: "Seed a vector index with embedded professor reviews",
		Long: color.CyanString("profrag") + "\nLoads a reviews file grouped by university, embeds every review and\n" +
			"upserts the vectors into the index, then prints the index statistics.\n\n" +
			"Settings come from the environment (OPENAI_API_KEY, PINECONE_API_KEY, INDEX_NAME, ...);\n" +
			"flags override them.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return configError(err) })

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "reviews file (JSON or YAML); overrides REVIEWS_FILE")
	fl.StringVar(&f.index, "index", "", "index name; overrides INDEX_NAME")
	fl.StringVar(&f.namespace, "namespace", "", "namespace to write into; overrides NAMESPACE")
	fl.IntVar(&f.concurrency, "concurrency", 0, "max in-flight embedding calls; overrides EMBED_CONCURRENCY")
	fl.IntVar(&f.batchSize, "batch-size", 0, "items per upsert request, 0 for one request; overrides UPSERT_BATCH_SIZE")
	fl.BoolVar(&f.strict, "strict", false, "treat every stage failure as fatal")
	fl.BoolVar(&f.dryRun, "dry-run", false, "load and validate the reviews file without calling any service")
	return cmd
}

// applyFlags overlays explicitly set flags on the environment configuration.
func applyFlags(cmd *cobra.Command, f rootFlags, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("file") {
		cfg.ReviewsFile = f.file
	}
	if fl.Changed("index") {
		cfg.IndexName = f.index
	}
	if fl.Changed("namespace") {
		cfg.Namespace = f.namespace
	}
	if fl.Changed("concurrency") {
		cfg.EmbedConcurrency = f.concurrency
	}
	if fl.Changed("batch-size") {
		cfg.UpsertBatchSize = f.batchSize
	}
	switch {
	case cfg.IndexName == "":
		return fmt.Errorf("%w: index name must not be empty", domain.ErrInvalidArgument)
	case cfg.EmbedConcurrency < 1:
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", domain.ErrInvalidArgument, cfg.EmbedConcurrency)
	case cfg.UpsertBatchSize < 0:
		return fmt.Errorf("%w: batch size must not be negative, got %d", domain.ErrInvalidArgument, cfg.UpsertBatchSize)
	}
	return nil
}

func run(cmd *cobra.Command, f rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return configError(err)
	}
	if err := applyFlags(cmd, f, &cfg); err != nil {
		return configError(err)
	}

	runID := ulid.Make().String()
	logger := observability.SetupLogger(cfg, runID)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		logger.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = obsctx.ContextWithLogger(ctx, logger)
	ctx = obsctx.ContextWithRunID(ctx, runID)

	opts := ragseed.OptionsFromConfig(cfg)
	opts.Strict = f.strict
	opts.DryRun = f.dryRun

	var (
		idx domain.VectorIndex
		emb domain.Embedder
	)
	if !f.dryRun {
		creds, err := config.LoadCredentials(cfg.VectorBackend)
		if err != nil {
			return configError(err)
		}
		idx = newVectorIndex(cfg, creds)
		lim, err := newEmbedLimiter(cfg)
		if err != nil {
			return configError(err)
		}
		var embOpts []realai.Option
		if lim != nil {
			defer func() { _ = lim.Close() }()
			embOpts = append(embOpts, realai.WithLimiter(lim))
		}
		emb = realai.New(cfg, creds.OpenAIAPIKey, embOpts...)
	}

	logger.Info("seed run starting",
		slog.String("backend", cfg.VectorBackend),
		slog.String("index", cfg.IndexName),
		slog.String("namespace", cfg.Namespace),
		slog.String("file", cfg.ReviewsFile),
		slog.Int("concurrency", cfg.EmbedConcurrency),
		slog.Bool("strict", f.strict),
		slog.Bool("dry_run", f.dryRun),
	)

	res, runErr := ragseed.NewSeeder(idx, emb, opts).Run(ctx)
	observability.MarkRunFinished(runErr == nil)

	pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.PushMetrics(pushCtx, cfg.PushgatewayURL, metricsJob); err != nil {
		logger.Warn("failed to push metrics", slog.Any("error", err))
	}

	if runErr != nil {
		return fatalError(runErr)
	}
	ragseed.Report(cmd.OutOrStdout(), res)
	return nil
}

// newVectorIndex builds the client of the configured backend. The backend
// name has already been checked by config.LoadCredentials.
func newVectorIndex(cfg config.Config, creds config.Credentials) domain.VectorIndex {
	if cfg.VectorBackend == config.BackendQdrant {
		return qdrantcli.New(cfg.QdrantURL, creds.QdrantAPIKey)
	}
	return pinecone.New(cfg.PineconeControlURL, creds.PineconeAPIKey,
		pinecone.WithAPIVersion(cfg.PineconeAPIVersion),
		pinecone.WithIndexHost(cfg.PineconeIndexHost),
		pinecone.WithTimeout(cfg.PineconeTimeout),
		pinecone.WithReadyTimeout(cfg.IndexReadyTimeout),
	)
}

// newEmbedLimiter returns the shared embedding throttle, or nil when it is not configured.
func newEmbedLimiter(cfg config.Config) (*ratelimiter.RedisLimiter, error) {
	if cfg.RedisURL == "" || cfg.EmbedRateLimitPerMin <= 0 {
		return nil, nil
	}
	return ratelimiter.NewFromURL(cfg.RedisURL, map[string]ratelimiter.BucketConfig{
		realai.EmbedBucket: ratelimiter.NewBucketConfigFromPerMinute(cfg.EmbedRateLimitPerMin),
	})
}
