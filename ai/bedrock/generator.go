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


// Package bedrock provides answer generation through Anthropic Claude on
// AWS Bedrock. Credentials are ambient (standard AWS environment or
// instance role); no per-tenant key is involved.
package bedrock

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/bedrock"

	"github.com/latticeworks/ragd/ai"
)

const (
	claudeModelID      = "anthropic.claude-3-sonnet-20240229-v1:0"
	defaultTemperature = 0.3
)

// Generator implements ai.Generator on AWS Bedrock.
type Generator struct {
	llm    llms.Model
	logger *slog.Logger
}

// NewGenerator creates a Claude generator on the ambient AWS credentials.
//
// Returns the ai.Generator interface to enforce abstraction.
func NewGenerator() (ai.Generator, error) {
	client, err := bedrock.New(bedrock.WithModel(claudeModelID))
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:    client,
		logger: slog.Default().With("component", "bedrock-generator"),
	}, nil
}

// Generate invokes Claude synchronously with the assembled prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(defaultTemperature))
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", err
	}
	return answer, nil
}
