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


package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/latticeworks/ragd/core"
)

// KeySize is the required length of the vault key in bytes (AES-256).
const KeySize = 32

// Vault performs symmetric encryption of per-tenant provider API keys at
// rest. A single process-wide key is loaded once at startup; there is no
// fallback key, a missing key must abort startup.
type Vault struct {
	aead   cipher.AEAD
	logger *slog.Logger
}

// New creates a Vault from 32 bytes of key material.
func New(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("vault: key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	return &Vault{
		aead:   aead,
		logger: slog.Default().With("component", "vault"),
	}, nil
}

// Encrypt seals a plaintext credential. The nonce is prepended to the
// returned ciphertext.
func (v *Vault) Encrypt(plaintext string) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	return v.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Malformed or foreign
// ciphertext yields core.ErrCorruptCredential; callers must treat that as
// fatal for the request but not for the process.
func (v *Vault) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) < v.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", core.ErrCorruptCredential)
	}

	nonce, sealed := ciphertext[:v.aead.NonceSize()], ciphertext[v.aead.NonceSize():]
	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		v.logger.Error("credential decryption failed", "err", err)
		return "", fmt.Errorf("%w: %v", core.ErrCorruptCredential, err)
	}

	return string(plaintext), nil
}
