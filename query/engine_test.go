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
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/ai/mock"
	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/registry"
	"github.com/latticeworks/ragd/registry/badger"
	"github.com/latticeworks/ragd/vault"
	"github.com/latticeworks/ragd/vectorstore"
)

type staticProvider struct {
	store    *vectorstore.Store
	embedder ai.Embedder
}

func (p *staticProvider) CollectionHandle(ctx context.Context, tenant core.TenantID, id core.CollectionID) (*vectorstore.Handle, error) {
	return p.store.Handle(core.IndexName(tenant, id), p.embedder)
}

type engineEnv struct {
	engine       *Engine
	registry     registry.Store
	store        *vectorstore.Store
	embedder     *mock.Embedder
	generator    *mock.Generator
	factoryCalls atomic.Int32
	credential   string
	tenant       core.TenantID
	collection   core.CollectionID
}

// newEngineEnv builds an engine over one indexed collection owned by alice.
func newEngineEnv(t *testing.T, model core.ModelSelector) *engineEnv {
	t.Helper()
	ctx := context.Background()

	store, err := badger.NewMemoryRegistry()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	credVault, err := vault.New(bytes.Repeat([]byte{7}, vault.KeySize))
	require.NoError(t, err)

	env := &engineEnv{
		registry:  store,
		store:     vectorstore.NewMemoryStore(),
		embedder:  mock.NewEmbedder(),
		generator: mock.NewGenerator(),
	}

	factory := func(selector core.ModelSelector, credential string) (ai.Generator, error) {
		env.factoryCalls.Add(1)
		env.credential = credential
		if !selector.Valid() {
			return nil, core.ErrUnsupportedModel
		}
		return env.generator, nil
	}

	provider := &staticProvider{store: env.store, embedder: env.embedder}
	env.engine, err = NewEngine(store, credVault, provider, factory)
	require.NoError(t, err)

	alice, err := store.RegisterTenant(ctx, "alice", "s3cret")
	require.NoError(t, err)
	env.tenant = alice.Id

	var encrypted []byte
	if model.RequiresTenantKey() {
		encrypted, err = credVault.Encrypt("sk-alice-key")
		require.NoError(t, err)
	}

	collection := &core.Collection{
		Id:           core.NewCollectionID(),
		Owner:        alice.Id,
		Name:         "boiler-docs",
		Model:        model,
		EncryptedKey: encrypted,
		State:        core.StateReady,
	}
	require.NoError(t, store.CreateCollection(ctx, collection))
	env.collection = collection.Id

	handle, err := provider.CollectionHandle(ctx, alice.Id, collection.Id)
	require.NoError(t, err)
	require.NoError(t, handle.UpsertChunks(ctx, []core.Chunk{
		{
			Id:     core.ChunkID("manual.txt", 0, 0),
			Text:   "The boiler pressure limit is 12 bar.",
			Source: "manual.txt",
			Page:   0,
			Seq:    0,
		},
	}))

	return env
}

func TestNewEngineValidation(t *testing.T) {
	store, err := badger.NewMemoryRegistry()
	require.NoError(t, err)
	defer store.Close()

	credVault, err := vault.New(bytes.Repeat([]byte{7}, vault.KeySize))
	require.NoError(t, err)

	provider := &staticProvider{store: vectorstore.NewMemoryStore(), embedder: mock.NewEmbedder()}
	factory := func(core.ModelSelector, string) (ai.Generator, error) { return mock.NewGenerator(), nil }

	_, err = NewEngine(nil, credVault, provider, factory)
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = NewEngine(store, nil, provider, factory)
	assert.ErrorIs(t, err, ErrVaultRequired)

	_, err = NewEngine(store, credVault, nil, factory)
	assert.ErrorIs(t, err, ErrHandleProviderRequired)

	_, err = NewEngine(store, credVault, provider, nil)
	assert.ErrorIs(t, err, ErrGeneratorFactoryRequired)

	_, err = NewEngine(store, credVault, provider, factory, WithTopK(0))
	assert.Error(t, err)
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("retrieved context reaches the generator", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)

		answer, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{
			Query: "What is the boiler pressure limit?",
		})
		require.NoError(t, err)

		// The mock generator echoes its prompt.
		assert.Contains(t, answer.Text, "12 bar")
		assert.Contains(t, answer.Text, "What is the boiler pressure limit?")
		assert.Equal(t, 1, answer.RetrievedCount)
		require.Len(t, answer.Provenance, 1)
		assert.Equal(t, "manual.txt_page0_chunk0", answer.Provenance[0].ChunkID)
		assert.False(t, answer.Provenance[0].Supplement)
		assert.GreaterOrEqual(t, answer.Timings.Total, answer.Timings.Retrieval)
	})

	t.Run("tenant key is decrypted for openai", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)

		_, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{Query: "q"})
		require.NoError(t, err)
		assert.Equal(t, "sk-alice-key", env.credential)
	})

	t.Run("no key is decrypted for claude", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelClaude)

		_, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{Query: "q"})
		require.NoError(t, err)
		assert.Empty(t, env.credential)
	})

	t.Run("empty query fails before anything runs", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)

		_, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{Query: "   "})
		assert.ErrorIs(t, err, core.ErrEmptyQuery)

		_, err = env.engine.Answer(ctx, env.tenant, env.collection, nil)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)

		assert.Equal(t, int32(0), env.factoryCalls.Load())
		assert.Equal(t, 0, env.generator.CallCount())
	})

	t.Run("foreign collection is masked", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)

		bob, err := env.registry.RegisterTenant(ctx, "bob", "hunter2")
		require.NoError(t, err)

		_, err = env.engine.Answer(ctx, bob.Id, env.collection, &Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrNotFoundOrNotOwned)
		assert.Equal(t, int32(0), env.factoryCalls.Load())
	})

	t.Run("corrupt credential fails the request", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)

		// Overwrite the row with garbage key material.
		collection, err := env.registry.GetCollection(ctx, env.tenant, env.collection)
		require.NoError(t, err)
		collection.EncryptedKey = []byte("garbage")
		require.NoError(t, env.registry.CreateCollection(ctx, collection))

		_, err = env.engine.Answer(ctx, env.tenant, env.collection, &Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrCorruptCredential)
		assert.Equal(t, int32(0), env.factoryCalls.Load())
	})

	t.Run("generation failure is wrapped", func(t *testing.T) {
		env := newEngineEnv(t, core.ModelOpenAI)
		env.generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("rate limited")
		}

		_, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{Query: "q"})
		assert.ErrorIs(t, err, core.ErrGeneration)
		assert.Contains(t, err.Error(), "rate limited")
	})
}

func TestAnswerSupplement(t *testing.T) {
	ctx := context.Background()
	env := newEngineEnv(t, core.ModelOpenAI)

	answer, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{
		Query: "What does the addendum say?",
		Supplement: &core.Upload{
			Filename: "addendum.txt",
			Content:  []byte("Addendum: the valve was replaced in March."),
		},
	})
	require.NoError(t, err)

	// Supplement joins the context after retrieval and is counted.
	assert.Equal(t, 2, answer.RetrievedCount)
	assert.Contains(t, answer.Text, "valve was replaced in March")
	assert.Contains(t, answer.Text, "12 bar")

	require.Len(t, answer.Provenance, 2)
	last := answer.Provenance[len(answer.Provenance)-1]
	assert.True(t, last.Supplement)
	assert.Equal(t, "addendum.txt", last.Source)

	t.Run("unreadable supplement is ignored", func(t *testing.T) {
		answer, err := env.engine.Answer(ctx, env.tenant, env.collection, &Request{
			Query: "q",
			Supplement: &core.Upload{
				Filename: "image.png",
				Content:  []byte{0x89, 0x50},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, answer.RetrievedCount)
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("What is the limit?", []string{"unit one", "unit two"})

	assert.Contains(t, prompt, "unit one\n\nunit two")
	assert.Contains(t, prompt, "Question: What is the limit?")
	assert.Contains(t, prompt, "If the context doesn't contain relevant information, say so.")

	empty := buildPrompt("q", nil)
	assert.Contains(t, empty, "Context:\n\n")
}
