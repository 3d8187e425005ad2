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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/ai/mock"
	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/ingestion"
	"github.com/latticeworks/ragd/query"
	"github.com/latticeworks/ragd/vault"
)

func newTestService(t *testing.T) (*Service, *mock.Generator) {
	t.Helper()

	generator := mock.NewGenerator()
	factory := func(selector core.ModelSelector, credential string) (ai.Generator, error) {
		if !selector.Valid() {
			return nil, core.ErrUnsupportedModel
		}
		return generator, nil
	}

	service, err := NewService(t.TempDir(),
		WithInMemory(),
		WithVaultKey(bytes.Repeat([]byte{7}, vault.KeySize)),
		WithEmbedder(mock.NewEmbedder()),
		WithGeneratorFactory(factory),
	)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	return service, generator
}

func TestNewServiceRequiresVaultKey(t *testing.T) {
	_, err := NewService(t.TempDir(), WithInMemory())
	assert.Error(t, err)

	_, err = NewService(t.TempDir(), WithInMemory(), WithVaultKey([]byte("too short")))
	assert.Error(t, err)
}

func TestServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	alice, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	t.Run("authenticate", func(t *testing.T) {
		tenant, err := service.Authenticate(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, alice.Id, tenant.Id)

		_, err = service.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	})

	result, err := service.Ingest(ctx, alice.Id, &ingestion.Request{
		Name:        "boiler-docs",
		Model:       core.ModelOpenAI,
		ProviderKey: "sk-alice",
		Documents: []core.Upload{
			{Filename: "manual.txt", Content: []byte("The boiler pressure limit is 12 bar.")},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Created)
	require.Greater(t, result.ChunkCount, 0)

	t.Run("answer", func(t *testing.T) {
		answer, err := service.Answer(ctx, alice.Id, result.CollectionID, &query.Request{
			Query: "What is the boiler pressure limit?",
		})
		require.NoError(t, err)
		assert.Contains(t, answer.Text, "12 bar")
		assert.Equal(t, 1, answer.RetrievedCount)
	})

	t.Run("list", func(t *testing.T) {
		summaries, err := service.ListCollections(ctx, alice.Id)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, result.CollectionID, summaries[0].Id)
		assert.Equal(t, "boiler-docs", summaries[0].Name)
		assert.Equal(t, core.ModelOpenAI, summaries[0].Model)
	})

	t.Run("cross-tenant isolation", func(t *testing.T) {
		bob, err := service.Register(ctx, "bob", "hunter2")
		require.NoError(t, err)

		_, err = service.Answer(ctx, bob.Id, result.CollectionID, &query.Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrNotFoundOrNotOwned)

		summaries, err := service.ListCollections(ctx, bob.Id)
		require.NoError(t, err)
		assert.Empty(t, summaries)

		deleted, err := service.DeleteCollection(ctx, bob.Id, result.CollectionID)
		require.NoError(t, err)
		assert.True(t, deleted.AllFailed())
	})

	t.Run("delete tears down all three resources", func(t *testing.T) {
		deleted, err := service.DeleteCollection(ctx, alice.Id, result.CollectionID)
		require.NoError(t, err)
		assert.True(t, deleted.MetadataDeleted)
		assert.True(t, deleted.FilesDeleted)
		assert.True(t, deleted.IndexDeleted)

		_, err = service.ListCollections(ctx, alice.Id)
		require.NoError(t, err)

		_, err = service.Answer(ctx, alice.Id, result.CollectionID, &query.Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrNotFoundOrNotOwned)
	})

	t.Run("repeat delete reports all-false", func(t *testing.T) {
		deleted, err := service.DeleteCollection(ctx, alice.Id, result.CollectionID)
		require.NoError(t, err)
		assert.True(t, deleted.AllFailed())
	})
}

func TestServiceDeleteRemovesFiles(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	alice, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	result, err := service.Ingest(ctx, alice.Id, &ingestion.Request{
		Name:      "docs",
		Model:     core.ModelClaude,
		Documents: []core.Upload{{Filename: "a.txt", Content: []byte("content here")}},
	})
	require.NoError(t, err)

	dir := filepath.Join(service.dataDir, string(alice.Id), string(result.CollectionID))
	_, err = os.Stat(dir)
	require.NoError(t, err)

	deleted, err := service.DeleteCollection(ctx, alice.Id, result.CollectionID)
	require.NoError(t, err)
	assert.True(t, deleted.FilesDeleted)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestServiceDeleteContinuesPastRegistryFailure(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	alice, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	result, err := service.Ingest(ctx, alice.Id, &ingestion.Request{
		Name:      "docs",
		Model:     core.ModelClaude,
		Documents: []core.Upload{{Filename: "a.txt", Content: []byte("content here")}},
	})
	require.NoError(t, err)

	dir := filepath.Join(service.dataDir, string(alice.Id), string(result.CollectionID))
	_, err = os.Stat(dir)
	require.NoError(t, err)

	// A dead registry must not stop the file and index teardown.
	require.NoError(t, service.registry.Close())

	deleted, err := service.DeleteCollection(ctx, alice.Id, result.CollectionID)
	assert.Error(t, err)
	assert.False(t, deleted.MetadataDeleted)
	assert.True(t, deleted.FilesDeleted)
	assert.True(t, deleted.IndexDeleted)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestServiceIngestIntoExisting(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	alice, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	first, err := service.Ingest(ctx, alice.Id, &ingestion.Request{
		Name:        "docs",
		Model:       core.ModelOpenAI,
		ProviderKey: "sk-alice",
		Documents:   []core.Upload{{Filename: "a.txt", Content: []byte("first file content")}},
	})
	require.NoError(t, err)

	second, err := service.Ingest(ctx, alice.Id, &ingestion.Request{
		CollectionID: first.CollectionID,
		Documents:    []core.Upload{{Filename: "b.txt", Content: []byte("second file content")}},
	})
	require.NoError(t, err)
	assert.False(t, second.Created)

	answer, err := service.Answer(ctx, alice.Id, first.CollectionID, &query.Request{
		Query: "what do the files say?",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, answer.RetrievedCount)
}
