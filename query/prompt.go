package query

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are a helpful AI assistant. Use the following context to answer the question.
Answer clearly and rely on the documents provided before using external knowledge.
If the context doesn't contain relevant information, say so.

Context:
%s

Question: %s

Answer:`

// buildPrompt assembles the generation prompt from the question and its
// context units. Units are separated by blank lines; an empty context
// still produces a well-formed prompt so the model can say it has nothing.
func buildPrompt(question string, contextUnits []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(contextUnits, "\n\n"), question)
}
