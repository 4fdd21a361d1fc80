package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrInternal          = errors.New("internal error")
)

// Review is a single professor review as read from the corpus file.
// Invariants: Professor and Review non-empty. Stars is carried as read.
type Review struct {
	Professor string  `json:"professor" yaml:"professor" validate:"required"`
	Subject   string  `json:"subject" yaml:"subject"`
	Review    string  `json:"review" yaml:"review" validate:"required"`
	Stars     float64 `json:"stars" yaml:"stars"`
}

// UniversityReviews groups the reviews of one university.
type UniversityReviews struct {
	University string
	Reviews    []Review
}

// Corpus is the grouped review corpus in file order. University keys are unique.
type Corpus []UniversityReviews

// Len returns the total number of review records across all universities.
func (c Corpus) Len() int {
	n := 0
	for _, g := range c {
		n += len(g.Reviews)
	}
	return n
}

// ItemMetadata is stored alongside each vector in the index.
type ItemMetadata struct {
	Review     string  `json:"review"`
	Subject    string  `json:"subject"`
	Stars      float64 `json:"stars"`
	University string  `json:"university"`
}

// IndexedItem is a vector ready to be upserted.
type IndexedItem struct {
	ID       string       `json:"id"`
	Values   []float32    `json:"values"`
	Metadata ItemMetadata `json:"metadata"`
}

// IndexSpec describes the index to provision.
type IndexSpec struct {
	Name      string
	Dimension int
	Metric    string
	Cloud     string
	Region    string
}

// NamespaceStats holds per-namespace counts.
type NamespaceStats struct {
	VectorCount int64 `json:"vectorCount"`
}

// IndexStats is the index-level summary returned by the vector store.
type IndexStats struct {
	Dimension        int                       `json:"dimension"`
	IndexFullness    float64                   `json:"indexFullness"`
	TotalVectorCount int64                     `json:"totalVectorCount"`
	Namespaces       map[string]NamespaceStats `json:"namespaces"`
}

// Context is an alias to context.Context for convenience in ports.
type Context = context.Context

//go:generate mockery --name=Embedder --with-expecter --filename=embedder_mock.go
//go:generate mockery --name=VectorIndex --with-expecter --filename=vector_index_mock.go

// Embedder (port)
type Embedder interface {
	// EmbedOne returns the embedding vector of a single text; one upstream call per invocation.
	EmbedOne(ctx Context, text string) ([]float32, error)
}

// VectorIndex (port)
type VectorIndex interface {
	ListIndexes(ctx Context) ([]string, error)
	CreateIndex(ctx Context, spec IndexSpec) error
	WaitReady(ctx Context, name string) error
	Upsert(ctx Context, index, namespace string, items []IndexedItem) (int, error)
	DescribeIndexStats(ctx Context, index string) (IndexStats, error)
}
