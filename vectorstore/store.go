// Copyright 2026 Lattice Works
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/core"
)

// Store wraps an embedded chromem database holding one named collection
// per (tenant, collection) pair. The store itself is cheap; Handle values
// are the expensive part and are cached by the service.
type Store struct {
	db     *chromem.DB
	logger *slog.Logger
}

// NewStore opens a persistent store rooted at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating index directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "vectorstore"),
	}, nil
}

// NewMemoryStore creates an in-memory store for testing.
func NewMemoryStore() *Store {
	return &Store{
		db:     chromem.NewDB(),
		logger: slog.Default().With("component", "vectorstore"),
	}
}

// Handle opens (or creates) the named collection, binding it to the given
// embedder for query-time embedding.
func (s *Store) Handle(name string, embedder ai.Embedder) (*Handle, error) {
	collection, err := s.db.GetOrCreateCollection(name, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", name, err)
	}

	return &Handle{
		name:       name,
		collection: collection,
		embedder:   embedder,
		logger:     s.logger,
	}, nil
}

// HasCollection reports whether the named collection exists.
func (s *Store) HasCollection(name string) bool {
	return s.db.GetCollection(name, nil) != nil
}

// DeleteCollection drops the named collection and its persisted vectors.
// Returns false when the collection did not exist.
func (s *Store) DeleteCollection(name string) (bool, error) {
	if s.db.GetCollection(name, nil) == nil {
		return false, nil
	}
	if err := s.db.DeleteCollection(name); err != nil {
		return false, fmt.Errorf("deleting collection %s: %w", name, err)
	}
	s.logger.Info("vector collection deleted", "collection", name)
	return true, nil
}

// embeddingFunc adapts ai.Embedder to chromem's query-time interface.
func embeddingFunc(embedder ai.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedText(ctx, text)
	}
}

// Handle is a live connection to one vector collection.
type Handle struct {
	name       string
	collection *chromem.Collection
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Name returns the collection name this handle is bound to.
func (h *Handle) Name() string {
	return h.name
}

// Count returns the number of stored chunks.
func (h *Handle) Count() int {
	return h.collection.Count()
}

// UpsertChunks embeds and stores a document's chunks as one batch.
// Chunk ids are deterministic, so re-upserting the same document replaces
// its chunks instead of duplicating them. The batch either fully commits
// or the error covers the whole document.
func (h *Handle) UpsertChunks(ctx context.Context, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	// One batched embedding call per document amortizes provider round-trips.
	vectors, err := h.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", core.ErrEmbedding, len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        chunk.Id,
			Content:   chunk.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"source": chunk.Source,
				"page":   strconv.Itoa(chunk.Page),
				"seq":    strconv.Itoa(chunk.Seq),
			},
		}
	}

	// Embeddings are precomputed, so no add-time concurrency is needed.
	if err := h.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("storing chunks in %s: %w", h.name, err)
	}

	h.logger.Debug("chunks upserted", "collection", h.name, "count", len(chunks))
	return nil
}

// Match is one retrieved chunk with its similarity score.
type Match struct {
	Chunk core.Chunk
	Score float32
}

// Query runs nearest-neighbor retrieval for the query text.
// Returns at most k matches, ordered by similarity.
func (h *Handle) Query(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	// chromem requires nResults <= stored document count.
	count := h.collection.Count()
	if count == 0 {
		return []Match{}, nil
	}
	if k > count {
		k = count
	}

	results, err := h.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", h.name, err)
	}

	matches := make([]Match, len(results))
	for i, result := range results {
		matches[i] = Match{
			Chunk: core.Chunk{
				Id:     result.ID,
				Text:   result.Content,
				Source: result.Metadata["source"],
				Page:   atoiOrZero(result.Metadata["page"]),
				Seq:    atoiOrZero(result.Metadata["seq"]),
			},
			Score: result.Similarity,
		}
	}
	return matches, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
