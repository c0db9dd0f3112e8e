// Package docstore stores package-insert fragments in Postgres and finds
// the ones semantically closest to a question using pgvector.
package docstore

import "time"

// Document is one indexed fragment of a medication package insert.
type Document struct {
	ID        string
	Content   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// SearchResult pairs a document with its similarity to the query,
// in [0,1] where 1 is an exact semantic match.
type SearchResult struct {
	Document   Document
	Similarity float64
}
