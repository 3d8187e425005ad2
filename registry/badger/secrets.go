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


package badger

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/go-crypt/x/argon2"
)

// Argon2id parameters for tenant secret digests.
const (
	secretSaltLen    = 16
	secretDigestLen  = 32
	secretTimeCost   = 1
	secretMemoryCost = 64 * 1024 // KiB
	secretThreads    = 4
)

// hashSecret derives an argon2id digest for a fresh secret.
func hashSecret(secret string) (digest, salt []byte, err error) {
	salt = make([]byte, secretSaltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generating salt: %w", err)
	}
	digest = argon2.IDKey([]byte(secret), salt, secretTimeCost, secretMemoryCost, secretThreads, secretDigestLen)
	return digest, salt, nil
}

// verifySecret re-derives the digest and compares in constant time.
func verifySecret(secret string, digest, salt []byte) bool {
	candidate := argon2.IDKey([]byte(secret), salt, secretTimeCost, secretMemoryCost, secretThreads, secretDigestLen)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
