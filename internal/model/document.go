// Package model defines the core data types shared across the intelligence
// extraction engine: input documents, text chunks, categories, extracted
// items, and the aggregated per-entity profile.
package model

// SourceDocument is one scraped text about the target entity. Immutable input
// supplied by the scraping collaborator.
type SourceDocument struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// TextChunk is a bounded slice of document text used as the retrieval unit.
// Embedding is populated before the chunk is handed to a vector index and is
// L2-normalized, so cosine similarity reduces to a dot product.
type TextChunk struct {
	Text        string
	SourceTitle string
	Embedding   []float32
}

// MaxChunkChars caps the character length of a single chunk.
const MaxChunkChars = 1800
