package keychain

import (
	"strings"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

// Algorithm is a digest supported by Digest.
type Algorithm string

const (
	// SHA1Algorithm is SHA-1.
	SHA1Algorithm Algorithm = "sha1"
	// SHA256Algorithm is SHA-256.
	SHA256Algorithm Algorithm = "sha256"
)

// ParseAlgorithm accepts "sha1", "sha256", "SHA-1" and "SHA-256" in any case.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "") {
	case "sha1":
		return SHA1Algorithm, nil
	case "sha256":
		return SHA256Algorithm, nil
	}
	return "", &UnsupportedAlgorithmError{Algorithm: name}
}

// Digest returns the lowercase hex digest of value.
func Digest(algorithm Algorithm, value []byte) (string, error) {
	switch algorithm {
	case SHA1Algorithm:
		return crypto.ToHex(crypto.SHA1(value)), nil
	case SHA256Algorithm:
		return crypto.ToHex(crypto.SHA256(value)), nil
	}
	return "", &UnsupportedAlgorithmError{Algorithm: string(algorithm)}
}

// SHA1 returns the hex SHA-1 digest of the UTF-8 bytes of value.
func SHA1(value string) string {
	return crypto.ToHex(crypto.SHA1([]byte(value)))
}

// SHA256 returns the hex SHA-256 digest of the UTF-8 bytes of value.
func SHA256(value string) string {
	return crypto.ToHex(crypto.SHA256([]byte(value)))
}
