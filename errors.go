package keychain

import (
	"errors"
	"fmt"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMalformedInput is returned when an input violates its expected
	// encoding (bad base64, bad JSON, invalid UTF-8, out-of-range KDF params)
	// before any cryptographic work is done.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDataCorrupt is returned when an envelope cannot be parsed. The
	// protected data should be treated as unreadable.
	ErrDataCorrupt = errors.New("data corrupt")

	// ErrAuthenticationFailure is returned when an AEAD tag or a signature
	// does not verify. This indicates a wrong key or possible tampering.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrUnsupportedAlgorithm is returned when an envelope or digest names an
	// algorithm this package does not implement.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMalformedKey is returned when a key or derivation label has the
	// wrong length or encoding.
	ErrMalformedKey = errors.New("malformed key")

	// ErrNotText is wrapped by MalformedInputError when plaintext is not valid UTF-8.
	ErrNotText = errors.New("plaintext must be valid UTF-8 text")
)

// KeychainError is implemented by all errors returned from this package.
type KeychainError interface {
	error
	KeychainError() // marker method
}

// MalformedInputError reports which input failed to decode.
type MalformedInputError struct {
	Field string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Field)
}

// Unwrap returns the underlying error.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// KeychainError implements the KeychainError interface.
func (e *MalformedInputError) KeychainError() {}

// DataCorruptError represents an envelope that could not be decoded.
type DataCorruptError struct {
	Stage string // "base64", "json", "iv", "ciphertext", "utf8"
	Err   error
}

func (e *DataCorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data corrupt at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("data corrupt at %s", e.Stage)
}

// Unwrap returns the underlying error.
func (e *DataCorruptError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DataCorruptError) Is(target error) bool {
	return target == ErrDataCorrupt
}

// KeychainError implements the KeychainError interface.
func (e *DataCorruptError) KeychainError() {}

// AuthenticationError indicates a wrong key or potential tampering.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failure: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailure
}

// KeychainError implements the KeychainError interface.
func (e *AuthenticationError) KeychainError() {}

// UnsupportedAlgorithmError names the algorithm that was rejected. An
// unsupported envelope is also unreadable, so it matches ErrDataCorrupt.
type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported algorithm: %q", e.Algorithm)
}

// Is implements errors.Is for sentinel error matching.
func (e *UnsupportedAlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm || target == ErrDataCorrupt
}

// KeychainError implements the KeychainError interface.
func (e *UnsupportedAlgorithmError) KeychainError() {}

// MalformedKeyError reports a key or label that cannot be used.
type MalformedKeyError struct {
	Key string
	Err error
}

func (e *MalformedKeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed key %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("malformed key %s", e.Key)
}

// Unwrap returns the underlying error.
func (e *MalformedKeyError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *MalformedKeyError) Is(target error) bool {
	return target == ErrMalformedKey
}

// KeychainError implements the KeychainError interface.
func (e *MalformedKeyError) KeychainError() {}

// wrapError converts internal crypto errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error, key string) error {
	if err == nil {
		return nil
	}

	var kerr KeychainError
	if errors.As(err, &kerr) {
		return err
	}

	switch {
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return &AuthenticationError{Message: "ciphertext did not authenticate"}
	case errors.Is(err, crypto.ErrSignatureVerificationFailed):
		return &AuthenticationError{Message: "signature did not verify"}
	case errors.Is(err, crypto.ErrInvalidKeySize),
		errors.Is(err, crypto.ErrInvalidPrivateKeySize),
		errors.Is(err, crypto.ErrInvalidPublicKeySize),
		errors.Is(err, crypto.ErrInvalidSeedSize),
		errors.Is(err, crypto.ErrEmptyKey):
		return &MalformedKeyError{Key: key, Err: err}
	case errors.Is(err, crypto.ErrInvalidNonceSize):
		return &DataCorruptError{Stage: "iv", Err: err}
	case errors.Is(err, crypto.ErrCiphertextTooShort):
		return &DataCorruptError{Stage: "ciphertext", Err: err}
	case errors.Is(err, crypto.ErrInvalidScryptParams):
		return &MalformedInputError{Field: "kdf params", Err: err}
	}

	return err
}
