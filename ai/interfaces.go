package ai

import (
	"context"

	"github.com/latticeworks/ragd/core"
)

// Embedder generates vector embeddings from text for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// Batch processing is more efficient than calling EmbedText repeatedly.
	// The returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces an answer from an assembled prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the model synchronously and returns plain text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory resolves a model selector and its credential into a
// Generator. Selectors outside the closed enum must yield
// core.ErrUnsupportedModel without any provider call.
type GeneratorFactory func(selector core.ModelSelector, credential string) (Generator, error)
