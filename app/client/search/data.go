package search

import "context"

// Passage is one retrieved chunk of knowledge base content.
type Passage struct {
	Content  string
	Score    float64
	Metadata map[string]string
}

type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Searcher is the retrieval collaborator used by the retrieval capability.
// Filter expressions are opaque "key=value" strings passed through to the
// metadata index.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, filter string) ([]Passage, error)
}
