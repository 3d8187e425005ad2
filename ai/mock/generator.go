package mock

import (
	"context"
	"sync"
)

// Generator is a test double for ai.Generator.
type Generator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the prompt itself is returned, which lets tests assert on
	// the assembled context without a live model.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewGenerator creates a mock generator that echoes its prompt by default.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate records the prompt and returns the configured answer.
func (m *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return prompt, nil
}

// CallCount returns the number of Generate calls.
func (m *Generator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the most recent prompt, or "" when none was recorded.
func (m *Generator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
