package security

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ResolveSecret decodes a configured secret, accepting hex or raw bytes.
// An empty value yields a fresh random secret and generated=true.
func ResolveSecret(configured string) (secret []byte, generated bool, err error) {
	if configured != "" {
		if decoded, err := hex.DecodeString(configured); err == nil {
			return decoded, false, nil
		}
		return []byte(configured), false, nil
	}

	s, err := GenerateSecret()
	if err != nil {
		return nil, false, err
	}
	decoded, _ := hex.DecodeString(s)
	return decoded, true, nil
}
