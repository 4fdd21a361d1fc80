// Package ragseed seeds a vector index with embedded professor reviews.
//
// A run provisions the index, loads the grouped corpus, embeds each review
// with one call per record, assembles the items, writes them in bulk and
// reads back the index statistics. Failures are classified per stage by
// stagePolicy.
package ragseed

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/profrag/internal/adapter/observability"
	"github.com/fairyhunter13/profrag/internal/config"
	"github.com/fairyhunter13/profrag/internal/corpus"
	"github.com/fairyhunter13/profrag/internal/domain"
	obsctx "github.com/fairyhunter13/profrag/internal/observability"
)

// Options controls a seeding run.
type Options struct {
	Index       domain.IndexSpec
	Namespace   string
	ReviewsFile string
	// Concurrency caps in-flight embedding calls; values below 1 mean 1.
	Concurrency int
	// BatchSize splits the bulk write; 0 writes every item in one request.
	BatchSize int
	Strict    bool
	DryRun    bool
}

// OptionsFromConfig derives run options from the environment configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Index:       cfg.IndexSpec(),
		Namespace:   cfg.Namespace,
		ReviewsFile: cfg.ReviewsFile,
		Concurrency: cfg.EmbedConcurrency,
		BatchSize:   cfg.UpsertBatchSize,
	}
}

// Result summarises a run.
type Result struct {
	DryRun       bool
	IndexCreated bool
	Records      int
	Items        int
	Upserted     int
	// Collisions lists ids that appeared more than once; the last record won.
	Collisions []string
	// Stats is nil when the statistics could not be read.
	Stats *domain.IndexStats
	// Warnings holds the recovered stage failures.
	Warnings []StageError
}

// Seeder runs the pipeline against an index and an embedder.
type Seeder struct {
	Index    domain.VectorIndex
	Embedder domain.Embedder
	Opts     Options
	// Load reads the corpus; defaults to corpus.Load.
	Load func(path string) (domain.Corpus, error)
}

// NewSeeder constructs a Seeder. idx and emb may be nil for dry runs.
func NewSeeder(idx domain.VectorIndex, emb domain.Embedder, opts Options) *Seeder {
	return &Seeder{Index: idx, Embedder: emb, Opts: opts, Load: corpus.Load}
}

// Run executes the pipeline. The returned error is a *StageError from a fatal
// stage; recovered failures are reported in Result.Warnings.
func (s *Seeder) Run(ctx domain.Context) (Result, error) {
	ctx, span := observability.StartSpan(ctx, "ragseed.Run")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)
	started := time.Now()
	res := Result{DryRun: s.Opts.DryRun}

	if !s.Opts.DryRun {
		created, err := s.provision(ctx)
		res.IndexCreated = created
		if err := s.fail(ctx, &res, StageProvision, err); err != nil {
			return res, err
		}
	}

	c, err := s.loadCorpus(ctx)
	if err := s.fail(ctx, &res, StageLoad, err); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	res.Records = c.Len()
	span.SetAttributes(attribute.Int("seed.records", res.Records))

	if s.Opts.DryRun {
		lg.Info("dry run: corpus validated", slog.String("file", s.Opts.ReviewsFile), slog.Int("records", res.Records), slog.Int("universities", len(c)))
		return res, nil
	}

	items, err := s.embedAll(ctx, c)
	if err := s.fail(ctx, &res, StageEmbed, err); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	items, res.Collisions = collapseDuplicates(items)
	if len(res.Collisions) > 0 {
		lg.Warn("duplicate item ids collapsed, last record wins", slog.Int("count", len(res.Collisions)), slog.Any("ids", res.Collisions))
	}
	res.Items = len(items)

	n, err := s.upsert(ctx, items)
	res.Upserted = n
	if err := s.fail(ctx, &res, StageUpsert, err); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	stats, err := s.stats(ctx)
	if err == nil {
		res.Stats = &stats
	}
	if err := s.fail(ctx, &res, StageStats, err); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	lg.Info("seed run finished",
		slog.String("index", s.Opts.Index.Name),
		slog.String("namespace", s.Opts.Namespace),
		slog.Bool("index_created", res.IndexCreated),
		slog.Int("records", res.Records),
		slog.Int("items", res.Items),
		slog.Int("upserted", res.Upserted),
		slog.Int("collisions", len(res.Collisions)),
		slog.Int("recovered_failures", len(res.Warnings)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

// fail applies the stage policy to err. It returns a non-nil error only when
// the run must stop.
func (s *Seeder) fail(ctx domain.Context, res *Result, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	lg := obsctx.LoggerFromContext(ctx)
	sev := SeverityOf(stage, s.Opts.Strict)
	// A canceled run is never recovered from.
	if ctx.Err() != nil {
		sev = Fatal
	}
	observability.FailStage(string(stage), sev.String())
	se := &StageError{Stage: stage, Err: err}
	if sev == Fatal {
		lg.Error("stage failed", slog.String("stage", string(stage)), slog.Any("error", err))
		return se
	}
	lg.Warn("stage failed, continuing", slog.String("stage", string(stage)), slog.Any("error", err))
	res.Warnings = append(res.Warnings, *se)
	return nil
}

func (s *Seeder) provision(ctx domain.Context) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "ragseed.provision")
	defer span.End()
	ctx = obsctx.ContextWithStage(ctx, string(StageProvision))
	created, err := EnsureIndex(ctx, s.Index, s.Opts.Index)
	if created {
		obsctx.LoggerFromContext(ctx).Info("index created", slog.String("index", s.Opts.Index.Name), slog.Int("dimension", s.Opts.Index.Dimension), slog.String("metric", s.Opts.Index.Metric))
	}
	return created, err
}

// EnsureIndex creates the index described by spec unless it already exists,
// then waits for a new index to become ready. It reports whether it created one.
func EnsureIndex(ctx domain.Context, idx domain.VectorIndex, spec domain.IndexSpec) (bool, error) {
	if spec.Name == "" {
		return false, fmt.Errorf("%w: index name required", domain.ErrInvalidArgument)
	}
	names, err := idx.ListIndexes(ctx)
	if err != nil {
		return false, fmt.Errorf("op=ragseed.EnsureIndex: list: %w", err)
	}
	if slices.Contains(names, spec.Name) {
		return false, nil
	}
	if err := idx.CreateIndex(ctx, spec); err != nil {
		return false, fmt.Errorf("op=ragseed.EnsureIndex: create %s: %w", spec.Name, err)
	}
	if err := idx.WaitReady(ctx, spec.Name); err != nil {
		return true, fmt.Errorf("op=ragseed.EnsureIndex: wait %s: %w", spec.Name, err)
	}
	return true, nil
}

func (s *Seeder) loadCorpus(ctx domain.Context) (domain.Corpus, error) {
	_, span := observability.StartSpan(ctx, "ragseed.load")
	defer span.End()
	load := s.Load
	if load == nil {
		load = corpus.Load
	}
	return load(s.Opts.ReviewsFile)
}

type embedJob struct {
	university string
	review     domain.Review
}

// embedAll embeds every review, one call per record, with at most
// Opts.Concurrency calls in flight. Items come back in corpus order.
func (s *Seeder) embedAll(ctx domain.Context, c domain.Corpus) ([]domain.IndexedItem, error) {
	ctx, span := observability.StartSpan(ctx, "ragseed.embed")
	defer span.End()
	ctx = obsctx.ContextWithStage(ctx, string(StageEmbed))
	if s.Embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", domain.ErrInvalidArgument)
	}

	jobs := make([]embedJob, 0, c.Len())
	for _, g := range c {
		for _, r := range g.Reviews {
			jobs = append(jobs, embedJob{university: g.University, review: r})
		}
	}

	dim := s.Opts.Index.Dimension
	items := make([]domain.IndexedItem, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Opts.Concurrency))
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id := BuildItemID(j.university, j.review.Professor)
			vec, err := s.Embedder.EmbedOne(gctx, j.review.Review)
			if err != nil {
				return fmt.Errorf("op=ragseed.embed: %s: %w", id, err)
			}
			if dim > 0 && len(vec) != dim {
				return fmt.Errorf("op=ragseed.embed: %s: %w: got %d values, index dimension is %d", id, domain.ErrInternal, len(vec), dim)
			}
			items[i] = Assemble(j.university, j.review, vec)
			observability.RecordsEmbeddedTotal.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("seed.embedded", len(items)))
	return items, nil
}

// upsert writes items to the namespace, in one request unless BatchSize is set,
// and returns the total count the index reported.
func (s *Seeder) upsert(ctx domain.Context, items []domain.IndexedItem) (int, error) {
	ctx, span := observability.StartSpan(ctx, "ragseed.upsert")
	defer span.End()
	ctx = obsctx.ContextWithStage(ctx, string(StageUpsert))
	if len(items) == 0 {
		return 0, nil
	}
	size := s.Opts.BatchSize
	if size <= 0 || size > len(items) {
		size = len(items)
	}
	total := 0
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		n, err := s.Index.Upsert(ctx, s.Opts.Index.Name, s.Opts.Namespace, items[start:end])
		total += n
		observability.ItemsUpsertedTotal.Add(float64(n))
		if err != nil {
			return total, fmt.Errorf("op=ragseed.upsert: items %d-%d: %w", start, end, err)
		}
	}
	obsctx.LoggerFromContext(ctx).Info("items upserted", slog.String("namespace", s.Opts.Namespace), slog.Int("upserted", total))
	span.SetAttributes(attribute.Int("seed.upserted", total))
	return total, nil
}

func (s *Seeder) stats(ctx domain.Context) (domain.IndexStats, error) {
	ctx, span := observability.StartSpan(ctx, "ragseed.stats")
	defer span.End()
	ctx = obsctx.ContextWithStage(ctx, string(StageStats))
	st, err := s.Index.DescribeIndexStats(ctx, s.Opts.Index.Name)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("op=ragseed.stats: %w", err)
	}
	return st, nil
}

