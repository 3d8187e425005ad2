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


package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/latticeworks/ragd/ai"
)

const (
	defaultChatModel   = "gpt-4o-mini"
	defaultTemperature = 0.3
)

// Generator implements ai.Generator using the OpenAI chat API with a
// per-tenant API key.
type Generator struct {
	llm    llms.Model
	logger *slog.Logger
}

// NewGenerator creates a generator authenticated with the tenant's key.
//
// Returns the ai.Generator interface to enforce abstraction.
func NewGenerator(apiKey string) (ai.Generator, error) {
	if apiKey == "" {
		return nil, errors.New("openai generator: api key required")
	}

	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(defaultChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:    client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// Generate invokes the chat model synchronously with the assembled prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(defaultTemperature))
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", err
	}
	return answer, nil
}
