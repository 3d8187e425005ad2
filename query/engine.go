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

package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/extract"
	"github.com/latticeworks/ragd/registry"
	"github.com/latticeworks/ragd/vault"
	"github.com/latticeworks/ragd/vectorstore"
)

// DefaultTopK is how many chunks are retrieved per query.
const DefaultTopK = 3

// Engine answers tenant questions against a collection. One Engine is
// shared by all tenants; per-request state lives on the stack.
type Engine struct {
	registry   registry.Store
	vault      *vault.Vault
	handles    vectorstore.HandleProvider
	generators ai.GeneratorFactory
	topK       int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK overrides the retrieval depth.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			return fmt.Errorf("topK must be positive, got %d", k)
		}
		e.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a query engine.
func NewEngine(
	store registry.Store,
	credVault *vault.Vault,
	handles vectorstore.HandleProvider,
	generators ai.GeneratorFactory,
	opts ...Option,
) (*Engine, error) {
	if store == nil {
		return nil, ErrRegistryRequired
	}
	if credVault == nil {
		return nil, ErrVaultRequired
	}
	if handles == nil {
		return nil, ErrHandleProviderRequired
	}
	if generators == nil {
		return nil, ErrGeneratorFactoryRequired
	}

	e := &Engine{
		registry:   store,
		vault:      credVault,
		handles:    handles,
		generators: generators,
		topK:       DefaultTopK,
		logger:     slog.Default().With("component", "query"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Request is one question against one collection. Supplement is an
// optional ad-hoc document whose text joins the retrieved context for
// this request only; it is never indexed.
type Request struct {
	Query      string
	Supplement *core.Upload
}

// Provenance identifies one context unit that fed the answer.
type Provenance struct {
	ChunkID    string
	Source     string
	Page       int
	Score      float32
	Supplement bool
}

// Timings carries per-stage wall-clock durations for one answered query.
type Timings struct {
	Retrieval  time.Duration
	Generation time.Duration
	Total      time.Duration
}

// Answer is the result of one query.
type Answer struct {
	Text           string
	RetrievedCount int
	Provenance     []Provenance
	Timings        Timings
}

// Answer runs retrieval and generation for one request.
//
// Validation happens before any provider interaction: empty queries and
// unsupported selectors fail locally, and the credential is decrypted
// only when the selected model actually needs one.
func (e *Engine) Answer(ctx context.Context, tenant core.TenantID, id core.CollectionID, req *Request) (*Answer, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, core.ErrEmptyQuery
	}

	collection, err := e.registry.GetCollection(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if !collection.Model.Valid() {
		return nil, core.ErrUnsupportedModel
	}

	var credential string
	if collection.Model.RequiresTenantKey() {
		credential, err = e.vault.Decrypt(collection.EncryptedKey)
		if err != nil {
			return nil, err
		}
	}

	generator, err := e.generators(collection.Model, credential)
	if err != nil {
		return nil, err
	}

	retrievalStart := time.Now()
	handle, err := e.handles.CollectionHandle(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	matches, err := handle.Query(ctx, req.Query, e.topK)
	if err != nil {
		return nil, err
	}
	retrieval := time.Since(retrievalStart)

	contextUnits := make([]string, 0, len(matches)+1)
	provenance := make([]Provenance, 0, len(matches)+1)
	for _, match := range matches {
		contextUnits = append(contextUnits, match.Chunk.Text)
		provenance = append(provenance, Provenance{
			ChunkID: match.Chunk.Id,
			Source:  match.Chunk.Source,
			Page:    match.Chunk.Page,
			Score:   match.Score,
		})
	}

	// The supplement joins the context after retrieval so it can never
	// displace an indexed chunk from the top-k set.
	if req.Supplement != nil {
		if text := extract.Text(ctx, req.Supplement.Filename, req.Supplement.Content); text != "" {
			contextUnits = append(contextUnits, text)
			provenance = append(provenance, Provenance{
				Source:     req.Supplement.Filename,
				Supplement: true,
			})
		}
	}

	prompt := buildPrompt(req.Query, contextUnits)

	generationStart := time.Now()
	text, err := generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}
	generation := time.Since(generationStart)

	answer := &Answer{
		Text:           text,
		RetrievedCount: len(contextUnits),
		Provenance:     provenance,
		Timings: Timings{
			Retrieval:  retrieval,
			Generation: generation,
			Total:      time.Since(start),
		},
	}

	e.logger.Info("query answered",
		"tenant", tenant,
		"collection", id,
		"model", collection.Model,
		"retrieved", answer.RetrievedCount,
		"retrieval_ms", retrieval.Milliseconds(),
		"generation_ms", generation.Milliseconds(),
	)
	return answer, nil
}
