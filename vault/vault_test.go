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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticeworks/ragd/core"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, KeySize)
}

func TestNew(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		v, err := New(testKey())
		require.NoError(t, err)
		require.NotNil(t, v)
	})

	t.Run("wrong key length", func(t *testing.T) {
		for _, n := range []int{0, 16, 31, 33, 64} {
			_, err := New(make([]byte, n))
			assert.Error(t, err, "key length %d", n)
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	v, err := New(testKey())
	require.NoError(t, err)

	t.Run("roundtrip", func(t *testing.T) {
		ciphertext, err := v.Encrypt("sk-test-provider-key")
		require.NoError(t, err)
		assert.NotContains(t, string(ciphertext), "sk-test-provider-key")

		plaintext, err := v.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "sk-test-provider-key", plaintext)
	})

	t.Run("distinct nonces", func(t *testing.T) {
		first, err := v.Encrypt("same-secret")
		require.NoError(t, err)
		second, err := v.Encrypt("same-secret")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		_, err := v.Decrypt([]byte("short"))
		assert.ErrorIs(t, err, core.ErrCorruptCredential)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		ciphertext, err := v.Encrypt("sk-secret")
		require.NoError(t, err)
		ciphertext[len(ciphertext)-1] ^= 0xff

		_, err = v.Decrypt(ciphertext)
		assert.ErrorIs(t, err, core.ErrCorruptCredential)
	})

	t.Run("foreign key", func(t *testing.T) {
		other, err := New(bytes.Repeat([]byte{9}, KeySize))
		require.NoError(t, err)

		ciphertext, err := other.Encrypt("sk-secret")
		require.NoError(t, err)

		_, err = v.Decrypt(ciphertext)
		assert.ErrorIs(t, err, core.ErrCorruptCredential)
	})
}

func TestKeyFile(t *testing.T) {
	t.Run("generate and load", func(t *testing.T) {
		encoded, err := GenerateKeyString()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "vault.key")
		require.NoError(t, os.WriteFile(path, []byte(encoded+"\n"), 0600))

		key, err := LoadKeyFile(path)
		require.NoError(t, err)
		assert.Len(t, key, KeySize)

		_, err = New(key)
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadKeyFile(filepath.Join(t.TempDir(), "nope.key"))
		assert.Error(t, err)
	})

	t.Run("invalid base64", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vault.key")
		require.NoError(t, os.WriteFile(path, []byte("!!not base64!!"), 0600))

		_, err := LoadKeyFile(path)
		assert.Error(t, err)
	})

	t.Run("wrong decoded length", func(t *testing.T) {
		_, err := DecodeKey("c2hvcnQ=") // "short"
		assert.Error(t, err)
	})
}
