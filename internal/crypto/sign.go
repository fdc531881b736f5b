package crypto

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// GenerateSigningKey creates a new Ed25519 private key (seed || public key)
// from r. A nil reader uses crypto/rand.
func GenerateSigningKey(r io.Reader) ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, err
	}
	return priv, nil
}

// SigningKeyFromSeed expands a 32-byte seed into an Ed25519 private key.
func SigningKeyFromSeed(seed []byte) ([]byte, error) {
	if len(seed) != Ed25519SeedSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSeedSize, len(seed), Ed25519SeedSize)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// PublicKeyFromSigningKey returns the public half of an Ed25519 private key.
func PublicKeyFromSigningKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != Ed25519PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidPrivateKeySize, len(privateKey), Ed25519PrivateKeySize)
	}
	pub := make([]byte, Ed25519PublicKeySize)
	copy(pub, privateKey[Ed25519SeedSize:])
	return pub, nil
}

// SignDetached signs message and returns the 64-byte signature without the message.
func SignDetached(privateKey, message []byte) ([]byte, error) {
	if len(privateKey) != Ed25519PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidPrivateKeySize, len(privateKey), Ed25519PrivateKeySize)
	}
	return ed25519.Sign(ed25519.PrivateKey(privateKey), message), nil
}

// VerifyDetached checks a detached Ed25519 signature.
func VerifyDetached(publicKey, message, signature []byte) error {
	if len(publicKey) != Ed25519PublicKeySize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidPublicKeySize, len(publicKey), Ed25519PublicKeySize)
	}
	if len(signature) != Ed25519SignatureSize {
		return ErrSignatureVerificationFailed
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return ErrSignatureVerificationFailed
	}
	return nil
}
