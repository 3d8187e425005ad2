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

package ragd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/ai/bedrock"
	"github.com/latticeworks/ragd/ai/openai"
	"github.com/latticeworks/ragd/cache"
	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/ingestion"
	"github.com/latticeworks/ragd/query"
	"github.com/latticeworks/ragd/registry"
	regbadger "github.com/latticeworks/ragd/registry/badger"
	"github.com/latticeworks/ragd/vault"
	"github.com/latticeworks/ragd/vectorstore"
)

// collectionKey identifies one tenant's collection in the handle cache.
type collectionKey struct {
	Tenant     core.TenantID
	Collection core.CollectionID
}

// Service is the single entry point for all tenant operations: sign-up,
// authentication, ingestion, querying, listing and teardown. One Service
// serves every tenant of a deployment; isolation happens inside, not by
// running one instance per tenant.
type Service struct {
	registry  registry.Store
	vault     *vault.Vault
	store     *vectorstore.Store
	embedders *cache.Map[string, ai.Embedder]
	handles   *cache.LRU[collectionKey, *vectorstore.Handle]
	pipeline  *ingestion.Pipeline
	engine    *query.Engine

	// fingerprint keys the embedder cache; one embedding config exists
	// per service instance.
	fingerprint string
	dataDir     string
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	vaultKey         []byte
	vaultKeyFile     string
	embeddingConfig  *ai.EmbeddingConfig
	topK             int
	chunkSize        int
	chunkOverlap     int
	handleCapacity   int
	poolSize         int
	inMemory         bool
	embedder         ai.Embedder
	generatorFactory ai.GeneratorFactory
}

// WithVaultKey supplies the 32-byte credential encryption key directly.
func WithVaultKey(key []byte) ServiceOption {
	return func(o *serviceOptions) {
		o.vaultKey = key
	}
}

// WithVaultKeyFile loads the credential encryption key from a base64 key
// file. Read errors surface from NewService.
func WithVaultKeyFile(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.vaultKeyFile = path
	}
}

// WithEmbeddingConfig sets the embedding service configuration.
func WithEmbeddingConfig(cfg *ai.EmbeddingConfig) ServiceOption {
	return func(o *serviceOptions) {
		o.embeddingConfig = cfg
	}
}

// WithTopK sets how many chunks each query retrieves.
func WithTopK(k int) ServiceOption {
	return func(o *serviceOptions) {
		o.topK = k
	}
}

// WithChunking overrides the ingestion chunk size and overlap.
func WithChunking(size, overlap int) ServiceOption {
	return func(o *serviceOptions) {
		o.chunkSize = size
		o.chunkOverlap = overlap
	}
}

// WithHandleCapacity bounds the vector handle cache.
func WithHandleCapacity(capacity int) ServiceOption {
	return func(o *serviceOptions) {
		o.handleCapacity = capacity
	}
}

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.poolSize = size
	}
}

// WithInMemory runs the registry and vector store in memory. For tests.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithEmbedder bypasses embedder construction with a fixed instance.
// For tests.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithGeneratorFactory replaces the default model-selector wiring.
// For tests.
func WithGeneratorFactory(factory ai.GeneratorFactory) ServiceOption {
	return func(o *serviceOptions) {
		o.generatorFactory = factory
	}
}

// NewService opens a service rooted at rootDir, which receives the
// registry, document and vector index subtrees. The vault key is
// mandatory; a deployment without one must not start.
func NewService(rootDir string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		embeddingConfig: ai.DefaultEmbeddingConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.vaultKeyFile != "" {
		key, err := vault.LoadKeyFile(options.vaultKeyFile)
		if err != nil {
			return nil, err
		}
		options.vaultKey = key
	}

	credVault, err := vault.New(options.vaultKey)
	if err != nil {
		return nil, fmt.Errorf("vault key: %w", err)
	}

	store, reg, err := openStores(rootDir, options.inMemory)
	if err != nil {
		return nil, err
	}

	embedderFor := func(ctx context.Context, fingerprint string) (ai.Embedder, error) {
		if options.embedder != nil {
			return options.embedder, nil
		}
		return openai.NewEmbedder(options.embeddingConfig)
	}

	s := &Service{
		registry:    reg,
		vault:       credVault,
		store:       store,
		embedders:   cache.NewMap(embedderFor),
		fingerprint: options.embeddingConfig.Fingerprint(),
		dataDir:     filepath.Join(rootDir, "data"),
		logger:      slog.Default().With("component", "service"),
	}

	s.handles, err = cache.NewLRU(options.handleCapacity, s.openHandle)
	if err != nil {
		reg.Close()
		return nil, err
	}

	var ingestOpts []ingestion.Option
	if options.poolSize > 0 {
		ingestOpts = append(ingestOpts, ingestion.WithPoolSize(options.poolSize))
	}
	if options.chunkSize > 0 {
		ingestOpts = append(ingestOpts, ingestion.WithChunking(options.chunkSize, options.chunkOverlap))
	}
	s.pipeline, err = ingestion.NewPipeline(reg, credVault, s, s.dataDir, ingestOpts...)
	if err != nil {
		reg.Close()
		return nil, err
	}

	factory := options.generatorFactory
	if factory == nil {
		factory = defaultGeneratorFactory
	}
	var queryOpts []query.Option
	if options.topK > 0 {
		queryOpts = append(queryOpts, query.WithTopK(options.topK))
	}
	s.engine, err = query.NewEngine(reg, credVault, s, factory, queryOpts...)
	if err != nil {
		s.pipeline.Release()
		reg.Close()
		return nil, err
	}

	return s, nil
}

func openStores(rootDir string, inMemory bool) (*vectorstore.Store, registry.Store, error) {
	if inMemory {
		reg, err := regbadger.NewMemoryRegistry()
		if err != nil {
			return nil, nil, err
		}
		return vectorstore.NewMemoryStore(), reg, nil
	}

	store, err := vectorstore.NewStore(filepath.Join(rootDir, "index"))
	if err != nil {
		return nil, nil, err
	}

	backend, err := regbadger.OpenBackend(filepath.Join(rootDir, "registry"), false)
	if err != nil {
		return nil, nil, err
	}
	reg, err := regbadger.NewRegistry(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return store, reg, nil
}

// defaultGeneratorFactory maps the closed model enum to real providers.
// Selectors outside the enum fail before any provider client is built.
func defaultGeneratorFactory(selector core.ModelSelector, credential string) (ai.Generator, error) {
	switch selector {
	case core.ModelOpenAI:
		return openai.NewGenerator(credential)
	case core.ModelClaude:
		return bedrock.NewGenerator()
	default:
		return nil, core.ErrUnsupportedModel
	}
}

// openHandle is the handle cache factory. The tenant id is baked into the
// index name, so a cached handle can only ever reach its owner's chunks.
func (s *Service) openHandle(ctx context.Context, key collectionKey) (*vectorstore.Handle, error) {
	embedder, err := s.embedders.Get(ctx, s.fingerprint)
	if err != nil {
		return nil, err
	}
	return s.store.Handle(core.IndexName(key.Tenant, key.Collection), embedder)
}

// CollectionHandle implements vectorstore.HandleProvider for the
// ingestion pipeline and the query engine.
func (s *Service) CollectionHandle(ctx context.Context, tenant core.TenantID, id core.CollectionID) (*vectorstore.Handle, error) {
	return s.handles.Get(ctx, collectionKey{Tenant: tenant, Collection: id})
}

// Register creates a new tenant.
func (s *Service) Register(ctx context.Context, name, secret string) (*core.Tenant, error) {
	return s.registry.RegisterTenant(ctx, name, secret)
}

// Authenticate verifies a name/secret pair and returns the tenant.
func (s *Service) Authenticate(ctx context.Context, name, secret string) (*core.Tenant, error) {
	return s.registry.Authenticate(ctx, name, secret)
}

// Ingest runs the ingestion pipeline for one tenant request.
func (s *Service) Ingest(ctx context.Context, tenant core.TenantID, req *ingestion.Request) (*ingestion.Result, error) {
	return s.pipeline.Ingest(ctx, tenant, req)
}

// Answer runs retrieval-augmented generation against a collection.
func (s *Service) Answer(ctx context.Context, tenant core.TenantID, id core.CollectionID, req *query.Request) (*query.Answer, error) {
	return s.engine.Answer(ctx, tenant, id, req)
}

// ListCollections returns summaries of the tenant's collections.
func (s *Service) ListCollections(ctx context.Context, tenant core.TenantID) ([]core.CollectionSummary, error) {
	return s.registry.ListCollections(ctx, tenant)
}

// DeleteCollection tears down a collection's three resources: the
// registry row, the persisted documents and the vector index. Each target
// is attempted regardless of the others, and a collection that is gone or
// was never owned by the caller reports all-false rather than an error.
// A registry failure does not stop the file and index teardown; the error
// is returned alongside the partial result.
func (s *Service) DeleteCollection(ctx context.Context, tenant core.TenantID, id core.CollectionID) (core.DeleteResult, error) {
	var result core.DeleteResult

	// Best effort; a missing row just means the state flip is moot.
	_ = s.registry.SetState(ctx, tenant, id, core.StateDeleting)

	deleted, metaErr := s.registry.DeleteCollection(ctx, tenant, id)
	if metaErr != nil {
		s.logger.Error("metadata teardown failed", "tenant", tenant, "collection", id, "err", metaErr)
	}
	result.MetadataDeleted = deleted

	dir := filepath.Join(s.dataDir, string(tenant), string(id))
	if _, statErr := os.Stat(dir); statErr == nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.logger.Error("document teardown failed", "dir", dir, "err", rmErr)
		} else {
			result.FilesDeleted = true
		}
	}

	indexDeleted, err := s.store.DeleteCollection(core.IndexName(tenant, id))
	if err != nil {
		s.logger.Error("index teardown failed", "tenant", tenant, "collection", id, "err", err)
	}
	result.IndexDeleted = indexDeleted
	s.handles.Invalidate(collectionKey{Tenant: tenant, Collection: id})

	s.logger.Info("collection teardown",
		"tenant", tenant,
		"collection", id,
		"metadata", result.MetadataDeleted,
		"files", result.FilesDeleted,
		"index", result.IndexDeleted,
	)
	return result, metaErr
}

// Close releases the worker pool and closes the registry backend.
func (s *Service) Close() error {
	s.pipeline.Release()

	if err := s.registry.Close(); err != nil {
		s.logger.Error("error closing registry", "err", err)
		return err
	}
	return nil
}
