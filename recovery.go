package keychain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

// RecoveryCode is the base58 encoding of 32 random bytes. It has no
// relation to any MasterKey.
type RecoveryCode string

// GenerateRecoveryCode draws 32 bytes from the Keychain's random source.
func (k *Keychain) GenerateRecoveryCode() (RecoveryCode, error) {
	raw, err := crypto.RandomBytes(k.randReader(), crypto.RecoveryKeySize)
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	return RecoveryCode(crypto.ToBase58(raw)), nil
}

// ParseRecoveryCode validates that s decodes to exactly 32 bytes.
func ParseRecoveryCode(s string) (RecoveryCode, error) {
	code := RecoveryCode(strings.TrimSpace(s))
	if _, err := code.Bytes(); err != nil {
		return "", err
	}
	return code, nil
}

// Bytes decodes the code.
func (c RecoveryCode) Bytes() ([]byte, error) {
	raw, err := crypto.FromBase58(string(c))
	if err != nil {
		return nil, &MalformedInputError{Field: "recovery code", Err: err}
	}
	if len(raw) != crypto.RecoveryKeySize {
		return nil, &MalformedInputError{
			Field: "recovery code",
			Err:   fmt.Errorf("decodes to %d bytes, want %d", len(raw), crypto.RecoveryKeySize),
		}
	}
	return raw, nil
}

// Mnemonic renders the same 32 bytes as a 24-word BIP-39 phrase, which is
// easier to write down.
func (c RecoveryCode) Mnemonic() (string, error) {
	raw, err := c.Bytes()
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(raw)
}

// RecoveryCodeFromMnemonic reverses RecoveryCode.Mnemonic.
func RecoveryCodeFromMnemonic(mnemonic string) (RecoveryCode, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", &MalformedInputError{Field: "recovery mnemonic", Err: errors.New("invalid words or checksum")}
	}

	raw, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", &MalformedInputError{Field: "recovery mnemonic", Err: err}
	}
	if len(raw) != crypto.RecoveryKeySize {
		return "", &MalformedInputError{
			Field: "recovery mnemonic",
			Err:   fmt.Errorf("encodes %d bytes, want %d", len(raw), crypto.RecoveryKeySize),
		}
	}
	return RecoveryCode(crypto.ToBase58(raw)), nil
}
