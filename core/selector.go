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


package core

import "strings"

// ModelSelector is the closed enum of supported answer-generation models.
// Each variant carries its own credential-resolution strategy: some run on
// ambient process credentials, others need the tenant's decrypted key.
type ModelSelector int

const (
	// ModelOpenAI uses an OpenAI chat model with the tenant's own API key.
	ModelOpenAI ModelSelector = iota + 1
	// ModelClaude uses Anthropic Claude through AWS Bedrock with the
	// ambient AWS credentials of the process.
	ModelClaude
)

// ParseModelSelector maps a user-supplied model name onto the enum.
// Anything outside the enum is ErrUnsupportedModel, never a default.
func ParseModelSelector(s string) (ModelSelector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ModelOpenAI, nil
	case "claude":
		return ModelClaude, nil
	default:
		return 0, ErrUnsupportedModel
	}
}

// String returns the canonical name of the selector.
func (m ModelSelector) String() string {
	switch m {
	case ModelOpenAI:
		return "openai"
	case ModelClaude:
		return "claude"
	default:
		return "unknown"
	}
}

// Valid reports whether the selector is a member of the closed enum.
func (m ModelSelector) Valid() bool {
	return m == ModelOpenAI || m == ModelClaude
}

// RequiresTenantKey reports whether the selector needs the tenant's
// decrypted provider key, as opposed to ambient process credentials.
func (m ModelSelector) RequiresTenantKey() bool {
	return m == ModelOpenAI
}
