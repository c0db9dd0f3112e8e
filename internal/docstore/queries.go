package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Table layout expected by pgxQuerier. Provisioning is an operational
// concern handled outside this binary.
//
//	CREATE EXTENSION IF NOT EXISTS vector;
//	CREATE TABLE documents (
//	    id         TEXT PRIMARY KEY,
//	    content    TEXT NOT NULL,
//	    metadata   JSONB NOT NULL DEFAULT '{}',
//	    embedding  vector(768) NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

const (
	upsertSQL = `
INSERT INTO documents (id, content, metadata, embedding, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET content = EXCLUDED.content,
    metadata = EXCLUDED.metadata,
    embedding = EXCLUDED.embedding`

	searchSQL = `
SELECT id, content, metadata, created_at,
       1 - (embedding <=> $1) AS similarity
FROM documents
ORDER BY embedding <=> $1
LIMIT $2`

	countSQL = `SELECT count(*) FROM documents`

	deleteSQL = `DELETE FROM documents WHERE id = $1`
)

// pgxQuerier runs the document queries against a pgx pool. It reports
// cosine similarity as 1 minus the pgvector cosine distance.
type pgxQuerier struct {
	pool *pgxpool.Pool
}

// NewQuerier wraps a connection pool as a document Querier.
func NewQuerier(pool *pgxpool.Pool) Querier {
	return &pgxQuerier{pool: pool}
}

func (q *pgxQuerier) UpsertDocument(ctx context.Context, doc Document, embedding []float32) error {
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	vec := pgvector.NewVector(embedding)
	if _, err := q.pool.Exec(ctx, upsertSQL, doc.ID, doc.Content, meta, vec, createdAt); err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}
	return nil
}

func (q *pgxQuerier) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := q.pool.Query(ctx, searchSQL, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			res  SearchResult
			meta []byte
		)
		if err := rows.Scan(&res.Document.ID, &res.Document.Content, &meta,
			&res.Document.CreatedAt, &res.Similarity); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &res.Document.Metadata); err != nil {
				return nil, fmt.Errorf("decoding metadata for %q: %w", res.Document.ID, err)
			}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading document rows: %w", err)
	}
	return results, nil
}

func (q *pgxQuerier) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	if err := q.pool.QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

func (q *pgxQuerier) DeleteDocument(ctx context.Context, id string) error {
	if _, err := q.pool.Exec(ctx, deleteSQL, id); err != nil {
		return fmt.Errorf("deleting document %q: %w", id, err)
	}
	return nil
}
