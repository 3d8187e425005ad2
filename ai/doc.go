// Package ai defines the consumed model capabilities: text embedding and
// answer generation.
//
// Concrete implementations live in subpackages (openai, bedrock); the mock
// subpackage provides deterministic test doubles. The pipelines depend
// only on the interfaces here, which keeps provider SDK details out of the
// orchestration layer.
package ai
