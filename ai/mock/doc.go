// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow the pipelines to be exercised without external model
// services and with controlled, deterministic behavior:
//
//   - Embedder: returns deterministic vectors derived from the text hash.
//   - Generator: echoes the assembled prompt by default, so tests can
//     assert on retrieved context; inject GenerateFunc for custom answers.
package mock
