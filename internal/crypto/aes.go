package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// ValidAESKeySize reports whether n is an AES-128, AES-192 or AES-256 key length.
func ValidAESKeySize(n int) bool {
	switch n {
	case 16, 24, 32:
		return true
	}
	return false
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if !ValidAESKeySize(len(key)) {
		return nil, fmt.Errorf("%w: got %d, want 16, 24 or 32", ErrInvalidKeySize, len(key))
	}

	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptAESGCM encrypts plaintext using AES-GCM with a 96-bit nonce and no
// associated data.
// Returns: ciphertext || tag (16 bytes). The nonce is not included.
func EncryptAESGCM(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// DecryptAESGCM reverses EncryptAESGCM. A tag mismatch is reported as
// ErrDecryptionFailed so callers can tell tampering from bad sizes.
func DecryptAESGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < AESTagSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrCiphertextTooShort, len(ciphertext))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
