// Package vault encrypts per-tenant provider API keys at rest.
//
// A Vault holds a single process-wide AES-256-GCM key loaded once at
// startup from a protected key file. Decryption of malformed or foreign
// ciphertext fails with core.ErrCorruptCredential, which is fatal for the
// request that needed the credential but never for the process.
package vault
