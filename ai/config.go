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


package ai

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingConfig holds configuration for the embedding service.
// One embedder exists per distinct config fingerprint; in practice that is
// a single entry per deployment.
type EmbeddingConfig struct {
	// Host is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	Host string

	// Model is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	Model string
}

// EmbeddingOption is a functional option for configuring an EmbeddingConfig.
type EmbeddingOption func(*EmbeddingConfig)

// WithHost sets the embedding service host URL.
func WithHost(host string) EmbeddingOption {
	return func(c *EmbeddingConfig) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) EmbeddingOption {
	return func(c *EmbeddingConfig) {
		c.Model = model
	}
}

// DefaultEmbeddingConfig returns a config with defaults for a local
// OpenAI-compatible service.
func DefaultEmbeddingConfig() *EmbeddingConfig {
	return &EmbeddingConfig{
		Host:  "http://localhost:11434/v1",
		Model: "embeddinggemma",
	}
}

// NewEmbeddingConfig creates a config with defaults and applies options.
func NewEmbeddingConfig(opts ...EmbeddingOption) *EmbeddingConfig {
	cfg := DefaultEmbeddingConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the host carries the /v1 suffix required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM).
func (c *EmbeddingConfig) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is complete. It normalizes first.
func (c *EmbeddingConfig) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("embedding config: Host is required")
	}
	if c.Model == "" {
		return errors.New("embedding config: Model is required")
	}
	return nil
}

// Fingerprint derives the cache key for this configuration. Identical
// host+model pairs always map to the same embedder instance.
func (c *EmbeddingConfig) Fingerprint() string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(c.Host))
	h.Write([]byte{0})
	h.Write([]byte(c.Model))
	sum := h.Sum(nil)
	return fmt.Sprintf("%s/%016x", c.Model, binary.LittleEndian.Uint64(sum))
}
