// Package openai provides embedding and generation backed by the OpenAI
// API or any OpenAI-compatible service. The generator authenticates with
// the tenant's own decrypted key; the embedder uses the deployment-wide
// embedding endpoint.
package openai
