package keychain

import (
	"crypto/rand"
	"io"

	"go.uber.org/zap"
)

// Keychain holds the capabilities the protocol needs from its environment:
// a random source, a logger and the KDF scheme in use. It holds no keys.
// A Keychain is safe for concurrent use if its random reader is. The zero
// value is usable and behaves like New().
type Keychain struct {
	cfg keychainConfig
}

// New creates a Keychain. With no options it uses crypto/rand, a no-op
// logger and KDFVersionV1.
func New(opts ...Option) *Keychain {
	cfg := keychainConfig{
		rand:       rand.Reader,
		logger:     zap.NewNop(),
		kdfVersion: KDFVersionV1,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.rand == nil {
		cfg.rand = rand.Reader
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	return &Keychain{cfg: cfg}
}

// KDFVersion returns the scheme DeriveMasterKey uses.
func (k *Keychain) KDFVersion() KDFVersion {
	if k.cfg.kdfVersion == 0 {
		return KDFVersionV1
	}
	return k.cfg.kdfVersion
}

func (k *Keychain) randReader() io.Reader {
	if k.cfg.rand == nil {
		return rand.Reader
	}
	return k.cfg.rand
}

func (k *Keychain) log() *zap.Logger {
	if k.cfg.logger == nil {
		return zap.NewNop()
	}
	return k.cfg.logger
}

var defaultKeychain = New()

// DeriveMasterKey derives a master key with the default Keychain.
func DeriveMasterKey(s0, username, password string, params KdfParams) (MasterKey, error) {
	return defaultKeychain.DeriveMasterKey(s0, username, password, params)
}

// Seal encrypts plaintext with the default Keychain.
func Seal(plaintext string, key DerivedKey) (string, error) {
	return defaultKeychain.Seal(plaintext, key)
}

// Open decrypts an envelope with the default Keychain.
func Open(envelope string, key DerivedKey) (string, error) {
	return defaultKeychain.Open(envelope, key)
}

// GenerateRecoveryCode draws a recovery code from crypto/rand.
func GenerateRecoveryCode() (RecoveryCode, error) {
	return defaultKeychain.GenerateRecoveryCode()
}
