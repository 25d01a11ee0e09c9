package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"frontdesk/app/config"

	chromem "github.com/philippgille/chromem-go"
	"github.com/samber/do"
)

const (
	collectionName = "knowledge"

	// rrfK dampens the contribution of lower ranks in reciprocal rank fusion.
	rrfK = 60
)

var _ Searcher = (*Index)(nil)

// Index is a hybrid knowledge base index: vector similarity via chromem
// fused with lexical term overlap using reciprocal rank fusion.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection

	mu   sync.RWMutex
	docs map[string]Document
}

func NewIndex(di *do.Injector) (*Index, error) {
	cfg := do.MustInvoke[*config.Config](di)

	embed := chromem.NewEmbeddingFuncOpenAICompat(
		cfg.OpenAI.Embedding.BaseURL,
		cfg.OpenAI.Embedding.Token,
		cfg.OpenAI.Embedding.Model,
		nil,
	)

	return New(embed)
}

func New(embed chromem.EmbeddingFunc) (*Index, error) {
	db := chromem.NewDB()

	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		docs:       make(map[string]Document),
	}, nil
}

func (s *Index) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	s.mu.Lock()
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	s.mu.Unlock()

	return nil
}

func (s *Index) Count() int {
	return s.collection.Count()
}

func (s *Index) Search(ctx context.Context, query string, topK int, filter string) ([]Passage, error) {
	if topK <= 0 {
		topK = 5
	}

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// Pull a wider candidate set from both rankers before fusing.
	candidates := topK * 2
	if candidates > count {
		candidates = count
	}

	where := parseFilter(filter)

	vectorResults, err := s.collection.Query(ctx, query, candidates, where, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	lexicalRanked := s.lexicalRank(query, where, candidates)

	fused := fuse(vectorResults, lexicalRanked)

	if len(fused) > topK {
		fused = fused[:topK]
	}

	passages := make([]Passage, 0, len(fused))
	for _, entry := range fused {
		s.mu.RLock()
		doc, ok := s.docs[entry.id]
		s.mu.RUnlock()

		if !ok {
			continue
		}

		passages = append(passages, Passage{
			Content:  doc.Content,
			Score:    entry.score,
			Metadata: doc.Metadata,
		})
	}

	return passages, nil
}

type rankedEntry struct {
	id    string
	score float64
}

// lexicalRank orders documents by query term overlap, scaled down by
// document length so short focused chunks beat long ones.
func (s *Index) lexicalRank(query string, where map[string]string, limit int) []rankedEntry {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]rankedEntry, 0, len(s.docs))

	for id, doc := range s.docs {
		if !matchesWhere(doc.Metadata, where) {
			continue
		}

		docTerms := tokenize(doc.Content)
		if len(docTerms) == 0 {
			continue
		}

		seen := make(map[string]bool, len(docTerms))
		for _, t := range docTerms {
			seen[t] = true
		}

		hits := 0
		for _, t := range terms {
			if seen[t] {
				hits++
			}
		}

		if hits == 0 {
			continue
		}

		entries = append(entries, rankedEntry{
			id:    id,
			score: float64(hits) / float64(len(terms)),
		})
	}

	sortRanked(entries)

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}

func fuse(vector []chromem.Result, lexical []rankedEntry) []rankedEntry {
	scores := make(map[string]float64)

	for rank, result := range vector {
		scores[result.ID] += 1.0 / float64(rrfK+rank+1)
	}
	for rank, entry := range lexical {
		scores[entry.id] += 1.0 / float64(rrfK+rank+1)
	}

	fused := make([]rankedEntry, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, rankedEntry{id: id, score: score})
	}

	sortRanked(fused)

	return fused
}

// sortRanked orders by score descending, breaking ties by id so rankings
// are reproducible across identical queries.
func sortRanked(entries []rankedEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}

		return entries[i].id < entries[j].id
	})
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

// parseFilter converts an opaque "key=value,key=value" expression into a
// metadata clause. Malformed segments are ignored.
func parseFilter(filter string) map[string]string {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}

	where := make(map[string]string)

	for _, segment := range strings.Split(filter, ",") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}

		where[key] = value
	}

	if len(where) == 0 {
		return nil
	}

	return where
}

func matchesWhere(metadata, where map[string]string) bool {
	for key, value := range where {
		if metadata[key] != value {
			return false
		}
	}

	return true
}
