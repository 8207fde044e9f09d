// Package index stores document chunks in an embedded vector database and
// answers similarity queries for retrieval-augmented operations.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/muscatlabs/qanun/internal/chunker"
)

const collectionName = "provisions"

// Result is a single similarity hit.
type Result struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Score      float32  `json:"score"`
	Doc        string   `json:"doc"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	Page       int      `json:"page"`
}

// Store wraps a chromem collection keyed by chunk ID.
type Store struct {
	mu    sync.Mutex
	db    *chromem.DB
	coll  *chromem.Collection
	embed chromem.EmbeddingFunc
	log   *slog.Logger
}

// New opens (or creates) a persistent store at path. An empty path yields an
// in-memory store, which is what the tests use.
func New(path string, embed chromem.EmbeddingFunc, log *slog.Logger) (*Store, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir %s: %w", path, err)
		}
		var err error
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open index at %s: %w", path, err)
		}
	}

	coll, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", collectionName, err)
	}

	return &Store{db: db, coll: coll, embed: embed, log: log}, nil
}

// Add indexes the chunks of one document, replacing any previous chunks for
// the same document ID.
func (s *Store) Add(ctx context.Context, docID string, chunks []chunker.Chunk) error {
	if docID == "" {
		return fmt.Errorf("empty document id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-ingesting a document replaces its chunks.
	if err := s.coll.Delete(ctx, map[string]string{"doc": docID}, nil); err != nil {
		s.log.Debug("clearing previous chunks", "doc", docID, "error", err)
	}

	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s#%d", docID, c.Index),
			Content: c.Text,
			Metadata: map[string]string{
				"doc":        docID,
				"breadcrumb": strings.Join(c.Breadcrumb, " > "),
				"page":       strconv.Itoa(c.PageStart),
			},
		})
	}

	if err := s.coll.AddDocuments(ctx, docs, 4); err != nil {
		return fmt.Errorf("index %s: %w", docID, err)
	}

	s.log.Info("indexed document", "doc", docID, "chunks", len(docs))
	return nil
}

// Remove drops all chunks of one document.
func (s *Store) Remove(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.coll.Delete(ctx, map[string]string{"doc": docID}, nil); err != nil {
		return fmt.Errorf("remove %s: %w", docID, err)
	}
	return nil
}

// Count reports the number of indexed chunks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Count()
}

// Search returns the k most similar chunks to the query. Pass docID to limit
// the search to one document; empty searches everything.
func (s *Store) Search(ctx context.Context, query string, k int, docID string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if k <= 0 {
		k = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// chromem requires nResults <= document count.
	count := s.coll.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	var where map[string]string
	if docID != "" {
		where = map[string]string{"doc": docID}
	}

	hits, err := s.coll.Query(ctx, query, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		r := Result{
			ID:    h.ID,
			Text:  h.Content,
			Score: h.Similarity,
			Doc:   h.Metadata["doc"],
		}
		if bc := h.Metadata["breadcrumb"]; bc != "" {
			r.Breadcrumb = strings.Split(bc, " > ")
		}
		if pg, err := strconv.Atoi(h.Metadata["page"]); err == nil {
			r.Page = pg
		}
		results = append(results, r)
	}
	return results, nil
}
