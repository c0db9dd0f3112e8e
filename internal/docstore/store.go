package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrEmptyContent indicates an attempt to index a document with no text.
var ErrEmptyContent = errors.New("document has no content")

// defaultTimeout bounds store operations when no explicit deadline is
// configured.
const defaultTimeout = 10 * time.Second

// Embedder turns text into an embedding vector. *llm.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Querier is the database surface the store consumes. The pgx-backed
// implementation comes from NewQuerier; tests provide fakes.
type Querier interface {
	UpsertDocument(ctx context.Context, doc Document, embedding []float32) error
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error)
	CountDocuments(ctx context.Context) (int64, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Store indexes documents and retrieves the ones closest to a query.
// Safe for concurrent use.
type Store struct {
	q        Querier
	embedder Embedder
	timeout  time.Duration
	log      *slog.Logger
}

// New creates a document store over a querier and an embedder. timeout
// bounds each operation, embedding included; zero or negative applies the
// default. logger may be nil.
func New(q Querier, embedder Embedder, timeout time.Duration, logger *slog.Logger) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{q: q, embedder: embedder, timeout: timeout, log: logger}
}

// Add embeds doc.Content and upserts it. Re-adding an id replaces the
// stored content and embedding.
func (s *Store) Add(ctx context.Context, doc Document) error {
	if strings.TrimSpace(doc.Content) == "" {
		return ErrEmptyContent
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document %q: %w", doc.ID, err)
	}
	if err := s.q.UpsertDocument(ctx, doc, embedding); err != nil {
		return err
	}

	s.log.Debug("document indexed", "id", doc.ID, "bytes", len(doc.Content))
	return nil
}

// Search returns up to topK documents ordered by descending similarity.
// The query text itself is never persisted.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.q.SearchByEmbedding(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}
	s.log.Debug("vector search", "hits", len(results), "top_k", topK)
	return results, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.q.CountDocuments(ctx)
}

// Delete removes one document by id. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.q.DeleteDocument(ctx, id)
}
