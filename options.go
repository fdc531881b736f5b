package keychain

import (
	"io"

	"go.uber.org/zap"
)

// keychainConfig holds configuration for a Keychain.
type keychainConfig struct {
	rand       io.Reader
	logger     *zap.Logger
	kdfVersion KDFVersion
}

// Option configures a Keychain.
type Option func(*keychainConfig)

// WithRandReader sets the random source used for IVs, recovery codes and
// generated signing keys. It must be a CSPRNG outside of tests.
// Default: crypto/rand.Reader
func WithRandReader(r io.Reader) Option {
	return func(c *keychainConfig) {
		c.rand = r
	}
}

// WithLogger sets the logger. Key material, passwords and plaintext are
// never logged.
// Default: zap.NewNop()
func WithLogger(logger *zap.Logger) Option {
	return func(c *keychainConfig) {
		c.logger = logger
	}
}

// WithKDFVersion selects the master-key derivation scheme.
// Default: KDFVersionV1
func WithKDFVersion(v KDFVersion) Option {
	return func(c *keychainConfig) {
		c.kdfVersion = v
	}
}
