package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when the AEAD tag does not verify.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrCiphertextTooShort is returned when a ciphertext cannot even hold
	// the authentication tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrInvalidPrivateKeySize is returned when a signing key has the wrong length.
	ErrInvalidPrivateKeySize = errors.New("invalid private key size")

	// ErrInvalidPublicKeySize is returned when a verification key has the wrong length.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSeedSize is returned when an Ed25519 seed has the wrong length.
	ErrInvalidSeedSize = errors.New("invalid seed size")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrInvalidScryptParams is returned when scrypt cost parameters are out of range.
	ErrInvalidScryptParams = errors.New("invalid scrypt parameters")

	// ErrEmptyKey is returned when a keyed hash is requested with an empty key.
	ErrEmptyKey = errors.New("empty key")

	// ErrInvalidHex is returned when a hex string cannot be decoded.
	ErrInvalidHex = errors.New("invalid hex")
)
