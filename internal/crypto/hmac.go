package crypto

import (
	"crypto/hmac"
	"crypto/sha1"

	sha256 "github.com/minio/sha256-simd"
)

// HMACSHA256 computes HMAC-SHA-256 of label under key.
func HMACSHA256(key []byte, label string) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(label))
	return mac.Sum(nil), nil
}

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// SHA1 returns the SHA-1 digest of data. Only used for legacy fingerprints.
func SHA1(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
}
