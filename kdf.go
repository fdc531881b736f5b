package keychain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

// KDFVersion discriminates master-key derivation schemes.
type KDFVersion int

// The zero KDFVersion is unset; a Keychain without an explicit version
// derives with KDFVersionV1.
const (
	// KDFVersionV1 is the protocol of record: the salt is
	// SHA-256(0x01 || s0 || username) and the key is kdfParams.bits/8 bytes.
	KDFVersionV1 KDFVersion = 1
	// KDFVersionLegacy hashes s0 || username directly into the salt and asks
	// scrypt for kdfParams.bits bytes. It exists only to re-derive master keys
	// of accounts created before the version tag; it is not interoperable
	// with V1. Sub-keys are still derived with the WALLET_ID and WALLET_KEY
	// labels; the legacy sub-key labels are not reproduced.
	KDFVersionLegacy KDFVersion = 2
)

func (v KDFVersion) String() string {
	switch v {
	case KDFVersionLegacy:
		return "legacy"
	case KDFVersionV1:
		return "v1"
	}
	return fmt.Sprintf("KDFVersion(%d)", int(v))
}

// KdfParams are the scrypt parameters served by the wallet server. They must
// be identical across derivations of the same account.
type KdfParams struct {
	// N is the cost exponent; scrypt runs with N = 2^n.
	N int `json:"n" yaml:"n"`
	// R is the scrypt block size.
	R int `json:"r" yaml:"r"`
	// P is the scrypt parallelism.
	P int `json:"p" yaml:"p"`
	// Bits is the master key length in bits.
	Bits int `json:"bits" yaml:"bits"`
}

// DefaultKdfParams is the profile used when the server does not send one.
var DefaultKdfParams = KdfParams{N: 14, R: 8, P: 1, Bits: 256}

// Validate checks the parameters without running the KDF.
func (p KdfParams) Validate() error {
	var problems []string
	if p.N < 1 || p.N > crypto.MaxScryptCostExponent {
		problems = append(problems, fmt.Sprintf("n=%d out of range [1, %d]", p.N, crypto.MaxScryptCostExponent))
	}
	if p.R < 1 {
		problems = append(problems, fmt.Sprintf("r=%d must be positive", p.R))
	}
	if p.P < 1 {
		problems = append(problems, fmt.Sprintf("p=%d must be positive", p.P))
	}
	if p.R >= 1 && p.P >= 1 && uint64(p.R)*uint64(p.P) >= 1<<30 {
		problems = append(problems, "r*p must be below 2^30")
	}
	if p.Bits <= 0 || p.Bits%8 != 0 {
		problems = append(problems, fmt.Sprintf("bits=%d must be a positive multiple of 8", p.Bits))
	}

	if len(problems) > 0 {
		return &MalformedInputError{Field: "kdf params", Err: errors.New(strings.Join(problems, "; "))}
	}
	return nil
}

// MasterKey is the password-derived root secret. Hold it in memory only for
// the session and Wipe it on lock or logout.
type MasterKey []byte

// String never prints key material.
func (k MasterKey) String() string {
	return fmt.Sprintf("MasterKey(%d bytes)", len(k))
}

// Wipe zeroes the key in place.
func (k MasterKey) Wipe() {
	clear(k)
}

// DerivedKey is a purpose-bound key derived from a MasterKey.
type DerivedKey []byte

// String never prints key material.
func (k DerivedKey) String() string {
	return fmt.Sprintf("DerivedKey(%d bytes)", len(k))
}

// Wipe zeroes the key in place.
func (k DerivedKey) Wipe() {
	clear(k)
}

// Base64 returns the standard base64 form, e.g. the wallet-id sent to the server.
func (k DerivedKey) Base64() string {
	return crypto.ToBase64(k)
}

// Token is a protocol-defined derivation label.
type Token string

const (
	// TokenWalletID derives the identifier the server indexes the wallet by.
	TokenWalletID Token = "WALLET_ID"
	// TokenWalletKey derives the key that seals the locally stored wallet.
	TokenWalletKey Token = "WALLET_KEY"
)

func (t Token) valid() bool {
	switch t {
	case TokenWalletID, TokenWalletKey:
		return true
	}
	return false
}

// DeriveMasterKey stretches password into a MasterKey bound to s0 and
// username. s0 is the server-issued base64 salt seed. Malformed input is
// rejected before scrypt runs.
func (k *Keychain) DeriveMasterKey(s0, username, password string, params KdfParams) (MasterKey, error) {
	seed, err := crypto.DecodeBase64(s0)
	if err != nil {
		return nil, &MalformedInputError{Field: "s0", Err: err}
	}
	if !utf8.ValidString(username) {
		return nil, &MalformedInputError{Field: "username", Err: ErrNotText}
	}
	if !utf8.ValidString(password) {
		return nil, &MalformedInputError{Field: "password", Err: ErrNotText}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	version := k.KDFVersion()
	var salt []byte
	var keyLen int
	switch version {
	case KDFVersionV1:
		salt = crypto.SHA256(saltInput([]byte{crypto.KDFVersionTag}, seed, []byte(username)))
		keyLen = params.Bits / 8
	case KDFVersionLegacy:
		salt = crypto.SHA256(saltInput(seed, []byte(username)))
		keyLen = params.Bits
	default:
		return nil, &UnsupportedAlgorithmError{Algorithm: version.String()}
	}

	start := time.Now()
	key, err := crypto.Scrypt([]byte(password), salt, params.N, params.R, params.P, keyLen)
	if err != nil {
		return nil, wrapError(err, "master")
	}

	k.log().Debug("derived master key",
		zap.Stringer("kdf_version", version),
		zap.Int("n", params.N),
		zap.Int("r", params.R),
		zap.Int("p", params.P),
		zap.Int("bits", params.Bits),
		zap.Duration("elapsed", time.Since(start)),
	)

	return MasterKey(key), nil
}

func saltInput(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// DeriveSubKey computes HMAC-SHA-256(masterKey, token). Distinct tokens give
// independent keys from the same master key.
func DeriveSubKey(masterKey MasterKey, token Token) (DerivedKey, error) {
	if !token.valid() {
		return nil, &MalformedKeyError{Key: "token", Err: fmt.Errorf("unknown token %q", string(token))}
	}

	sub, err := crypto.HMACSHA256(masterKey, string(token))
	if err != nil {
		return nil, wrapError(err, "master")
	}
	return DerivedKey(sub), nil
}

// DeriveWalletID derives the WALLET_ID sub-key.
func DeriveWalletID(masterKey MasterKey) (DerivedKey, error) {
	return DeriveSubKey(masterKey, TokenWalletID)
}

// DeriveWalletKey derives the WALLET_KEY sub-key used to seal wallet data.
func DeriveWalletKey(masterKey MasterKey) (DerivedKey, error) {
	return DeriveSubKey(masterKey, TokenWalletKey)
}
