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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/extract"
	"github.com/latticeworks/ragd/registry"
	"github.com/latticeworks/ragd/vault"
	"github.com/latticeworks/ragd/vectorstore"
)

// Pipeline turns raw uploaded documents into an indexed, queryable
// collection. Documents are processed concurrently on a worker pool;
// failure of one document never aborts the others.
type Pipeline struct {
	registry     registry.Store
	vault        *vault.Vault
	handles      vectorstore.HandleProvider
	pool         *ants.Pool
	dataDir      string
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document
// processing. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the chunk size and overlap constants.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if size < 1 || overlap < 0 || overlap >= size {
			return fmt.Errorf("invalid chunking: size=%d overlap=%d", size, overlap)
		}
		p.chunkSize = size
		p.chunkOverlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline. dataDir is the root of the
// tenant-and-collection-scoped document tree.
func NewPipeline(
	store registry.Store,
	credVault *vault.Vault,
	handles vectorstore.HandleProvider,
	dataDir string,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrRegistryRequired
	}
	if credVault == nil {
		return nil, ErrVaultRequired
	}
	if handles == nil {
		return nil, ErrHandleProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		registry:     store,
		vault:        credVault,
		handles:      handles,
		pool:         pool,
		dataDir:      dataDir,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		logger:       slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Request describes one ingestion call. Leave CollectionID empty to
// create a new collection; Name, Model and ProviderKey are then required.
// For the add-to-existing path only CollectionID and Documents are read.
type Request struct {
	CollectionID core.CollectionID
	Name         string
	Model        core.ModelSelector
	ProviderKey  string
	Documents    []core.Upload
}

// DocumentResult reports the outcome for one uploaded document.
type DocumentResult struct {
	Filename   string
	Path       string
	ChunkCount int
	Err        error
}

// Result is the caller-visible outcome of an ingestion call. Documents
// lists exactly which files were persisted and indexed; already-written
// files are never rolled back on later failures.
type Result struct {
	CollectionID core.CollectionID
	Created      bool
	ChunkCount   int
	Documents    []DocumentResult
}

// Ingest runs the pipeline for one tenant request.
//
// Stage order matters: ownership is validated before any resource is
// touched, and the registry manifest is committed only after the vector
// store holds chunks for at least one document, so a collection can never
// read as ready with nothing indexed.
func (p *Pipeline) Ingest(ctx context.Context, tenant core.TenantID, req *Request) (*Result, error) {
	if req == nil || len(req.Documents) == 0 {
		return nil, core.ErrNoDocuments
	}

	collection, created, err := p.resolveCollection(ctx, tenant, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		CollectionID: collection.Id,
		Created:      created,
		Documents:    make([]DocumentResult, len(req.Documents)),
	}

	dir := p.collectionDir(tenant, collection.Id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}

	// Stage 2: persist raw bytes. Failures are per-file.
	for i, upload := range req.Documents {
		result.Documents[i].Filename = upload.Filename

		name := filepath.Base(upload.Filename)
		if name == "." || name == string(filepath.Separator) {
			result.Documents[i].Err = fmt.Errorf("invalid filename %q", upload.Filename)
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, upload.Content, 0644); err != nil {
			result.Documents[i].Err = fmt.Errorf("persisting %s: %w", name, err)
			continue
		}
		result.Documents[i].Path = path
	}

	// Stages 3-5: extract, chunk, embed, upsert. One pool task per
	// persisted document; one batched vector-store commit per document.
	var wg sync.WaitGroup
	for i := range result.Documents {
		if result.Documents[i].Err != nil {
			continue
		}
		doc := &result.Documents[i]
		content := req.Documents[i].Content

		wg.Add(1)
		task := func() {
			defer wg.Done()
			doc.ChunkCount, doc.Err = p.processDocument(ctx, tenant, collection.Id, doc.Path, content)
		}
		if submitErr := p.pool.Submit(task); submitErr != nil {
			// Pool unavailable; run inline rather than dropping the document.
			task()
		}
	}
	wg.Wait()

	// Only documents that landed chunks in the index enter the manifest;
	// a persisted file that extracted to nothing stays on disk unlisted.
	var committed []string
	for _, doc := range result.Documents {
		if doc.Err == nil && doc.ChunkCount > 0 {
			committed = append(committed, doc.Path)
			result.ChunkCount += doc.ChunkCount
		}
	}

	// Stage 6: registry commit, only after at least one vector commit.
	if len(committed) > 0 {
		manifest, err := p.registry.AppendDocuments(ctx, tenant, collection.Id, committed)
		if err != nil {
			return nil, fmt.Errorf("committing manifest: %w", err)
		}
		if collection.State == core.StateCreating {
			if err := p.registry.SetState(ctx, tenant, collection.Id, core.StateReady); err != nil {
				return nil, fmt.Errorf("marking collection ready: %w", err)
			}
		}
		p.writeManifestMirror(dir, tenant, collection, manifest)
	}

	p.logger.Info("ingestion finished",
		"tenant", tenant,
		"collection", collection.Id,
		"documents", len(req.Documents),
		"indexed", len(committed),
		"chunks", result.ChunkCount,
	)
	return result, nil
}

// resolveCollection validates ownership for the add-to-existing path or
// registers a new collection in state Creating.
func (p *Pipeline) resolveCollection(ctx context.Context, tenant core.TenantID, req *Request) (*core.Collection, bool, error) {
	if req.CollectionID != "" {
		collection, err := p.registry.GetCollection(ctx, tenant, req.CollectionID)
		if err != nil {
			return nil, false, err
		}
		return collection, false, nil
	}

	if !req.Model.Valid() {
		return nil, false, core.ErrUnsupportedModel
	}
	if req.Model.RequiresTenantKey() && req.ProviderKey == "" {
		return nil, false, ErrProviderKeyRequired
	}

	var encrypted []byte
	if req.ProviderKey != "" {
		var err error
		encrypted, err = p.vault.Encrypt(req.ProviderKey)
		if err != nil {
			return nil, false, err
		}
	}

	now := time.Now().UTC()
	collection := &core.Collection{
		Id:           core.NewCollectionID(),
		Owner:        tenant,
		Name:         req.Name,
		Model:        req.Model,
		EncryptedKey: encrypted,
		State:        core.StateCreating,
		InsertedAt:   now,
		UpdatedAt:    now,
	}
	if err := p.registry.CreateCollection(ctx, collection); err != nil {
		return nil, false, err
	}
	return collection, true, nil
}

// processDocument runs extract -> chunk -> embed -> upsert for one file.
func (p *Pipeline) processDocument(ctx context.Context, tenant core.TenantID, id core.CollectionID, path string, content []byte) (int, error) {
	source := filepath.Base(path)

	pages := extract.Pages(ctx, source, content)
	if len(pages) == 0 {
		p.logger.Warn("no text extracted", "file", source)
		return 0, nil
	}

	chunks, err := chunkPages(source, pages, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return 0, fmt.Errorf("chunking %s: %w", source, err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	handle, err := p.handles.CollectionHandle(ctx, tenant, id)
	if err != nil {
		return 0, fmt.Errorf("opening vector collection: %w", err)
	}

	if err := handle.UpsertChunks(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (p *Pipeline) collectionDir(tenant core.TenantID, id core.CollectionID) string {
	return filepath.Join(p.dataDir, string(tenant), string(id))
}
