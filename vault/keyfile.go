package vault

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// LoadKeyFile reads base64-encoded key material from a protected file.
// A missing or malformed file is an error the caller should treat as
// fatal at startup; fabricating a key here would defeat the feature.
func LoadKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vault: reading key file %s: %w", path, err)
	}
	return decodeKey(string(raw))
}

// DecodeKey parses base64-encoded key material, e.g. from an environment
// variable.
func DecodeKey(encoded string) ([]byte, error) {
	return decodeKey(encoded)
}

func decodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("vault: key material is not valid base64: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("vault: key material must decode to %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// GenerateKeyString returns fresh base64 key material suitable for a key
// file. Used by the CLI's init command.
func GenerateKeyString() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
