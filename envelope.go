package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

// Cipher is the closed set of envelope algorithms.
type Cipher int

const (
	// CipherAESGCM is AES in GCM mode with a 96-bit IV and 128-bit tag,
	// recorded as cipherName "aes" and modeName "gcm".
	CipherAESGCM Cipher = iota + 1
)

// Tags returns the cipherName and modeName written into envelopes.
func (c Cipher) Tags() (cipherName, modeName string) {
	switch c {
	case CipherAESGCM:
		return crypto.CipherName, crypto.ModeName
	}
	return "", ""
}

// CipherFromTags resolves an envelope's algorithm pair.
func CipherFromTags(cipherName, modeName string) (Cipher, error) {
	switch {
	case cipherName == crypto.CipherName && modeName == crypto.ModeName:
		return CipherAESGCM, nil
	}
	return 0, &UnsupportedAlgorithmError{Algorithm: cipherName + "/" + modeName}
}

// Envelope is the self-describing record behind an envelope string.
// Field order matches the wire format.
type Envelope struct {
	// IV is the base64-encoded 12-byte AES-GCM nonce.
	IV string `json:"IV"`
	// CipherText is the base64-encoded ciphertext followed by the 16-byte tag.
	CipherText string `json:"cipherText"`
	// CipherName is the cipher tag, always "aes".
	CipherName string `json:"cipherName"`
	// ModeName is the mode tag, always "gcm".
	ModeName string `json:"modeName"`
}

// Encode serializes the envelope as base64(JSON).
func (e *Envelope) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	return crypto.ToBase64(data), nil
}

// ParseEnvelope decodes an envelope string without decrypting it.
func ParseEnvelope(s string) (*Envelope, error) {
	raw, err := crypto.DecodeBase64(s)
	if err != nil {
		return nil, &DataCorruptError{Stage: "base64", Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DataCorruptError{Stage: "json", Err: err}
	}
	return &env, nil
}

func checkEnvelopeKey(key DerivedKey) error {
	if !crypto.ValidAESKeySize(len(key)) {
		return &MalformedKeyError{Key: "envelope", Err: crypto.ErrInvalidKeySize}
	}
	return nil
}

// Seal encrypts plaintext under key with a fresh random IV and returns the
// portable envelope string.
func (k *Keychain) Seal(plaintext string, key DerivedKey) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", &MalformedInputError{Field: "plaintext", Err: ErrNotText}
	}
	if err := checkEnvelopeKey(key); err != nil {
		return "", err
	}

	iv, err := crypto.RandomBytes(k.randReader(), crypto.AESNonceSize)
	if err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	ciphertext, err := crypto.EncryptAESGCM(key, iv, []byte(plaintext))
	if err != nil {
		return "", wrapError(err, "envelope")
	}

	cipherName, modeName := CipherAESGCM.Tags()
	env := &Envelope{
		IV:         crypto.ToBase64(iv),
		CipherText: crypto.ToBase64(ciphertext),
		CipherName: cipherName,
		ModeName:   modeName,
	}
	return env.Encode()
}

// Open decrypts an envelope string produced by Seal (or any conforming
// implementation). Parse failures are DataCorruptError; a wrong key or a
// modified ciphertext is AuthenticationError.
func (k *Keychain) Open(envelope string, key DerivedKey) (string, error) {
	if err := checkEnvelopeKey(key); err != nil {
		return "", err
	}

	plaintext, err := k.open(envelope, key)
	if err != nil {
		k.logOpenFailure(err)
		return "", err
	}
	return plaintext, nil
}

func (k *Keychain) open(envelope string, key DerivedKey) (string, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	c, err := CipherFromTags(env.CipherName, env.ModeName)
	if err != nil {
		return "", err
	}

	iv, err := crypto.DecodeBase64(env.IV)
	if err != nil {
		return "", &DataCorruptError{Stage: "iv", Err: err}
	}
	ciphertext, err := crypto.DecodeBase64(env.CipherText)
	if err != nil {
		return "", &DataCorruptError{Stage: "ciphertext", Err: err}
	}

	var plaintext []byte
	switch c {
	case CipherAESGCM:
		plaintext, err = crypto.DecryptAESGCM(key, iv, ciphertext)
	}
	if err != nil {
		return "", wrapError(err, "envelope")
	}

	if !utf8.Valid(plaintext) {
		return "", &DataCorruptError{Stage: "utf8", Err: ErrNotText}
	}
	return string(plaintext), nil
}

func (k *Keychain) logOpenFailure(err error) {
	var corrupt *DataCorruptError
	var unsupported *UnsupportedAlgorithmError
	switch {
	case errors.As(err, &corrupt):
		k.log().Warn("envelope unreadable", zap.String("stage", corrupt.Stage))
	case errors.As(err, &unsupported):
		k.log().Warn("envelope algorithm unsupported", zap.String("algorithm", unsupported.Algorithm))
	case errors.Is(err, ErrAuthenticationFailure):
		k.log().Warn("envelope failed authentication")
	}
}
