package crypto

const (
	// KDFVersionTag is the single byte prepended to the salt seed before hashing.
	KDFVersionTag = 0x01

	// AESNonceSize is the size of an AES-GCM nonce in bytes (three 32-bit words).
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// HMACSize is the output size of HMAC-SHA-256 in bytes.
	HMACSize = 32

	// Ed25519SeedSize is the size of an Ed25519 private key seed in bytes.
	Ed25519SeedSize = 32
	// Ed25519PrivateKeySize is the size of an expanded Ed25519 private
	// key (seed || public key) in bytes.
	Ed25519PrivateKeySize = 64
	// Ed25519PublicKeySize is the size of an Ed25519 public key in bytes.
	Ed25519PublicKeySize = 32
	// Ed25519SignatureSize is the size of a detached Ed25519 signature in bytes.
	Ed25519SignatureSize = 64

	// RecoveryKeySize is the amount of random bytes behind a recovery code.
	RecoveryKeySize = 32

	// MaxScryptCostExponent bounds the scrypt cost parameter to N = 2^30.
	MaxScryptCostExponent = 30
)

// CipherName and ModeName are the only algorithm tags written into envelopes.
const (
	CipherName = "aes"
	ModeName   = "gcm"
)
