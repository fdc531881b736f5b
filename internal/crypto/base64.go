package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58/base58"
)

// ToBase64 encodes bytes to standard base64 with padding.
// All protocol values (salt seeds, IVs, ciphertexts, signatures, envelopes)
// use this form.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard base64 with or without padding.
// Surrounding whitespace is ignored. Non-zero trailing bits are rejected so
// that every byte sequence has exactly one accepted encoding.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	data, err := base64.StdEncoding.Strict().DecodeString(s)
	if err == nil {
		return data, nil
	}

	// Try standard base64 without padding
	return base64.RawStdEncoding.Strict().DecodeString(s)
}

// ToBase58 encodes bytes with the Bitcoin base58 alphabet.
func ToBase58(data []byte) string {
	return base58.Encode(data)
}

// FromBase58 decodes a Bitcoin-alphabet base58 string.
func FromBase58(s string) ([]byte, error) {
	return base58.Decode(s)
}

// ToHex encodes bytes as lowercase hex.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex decodes a hex string. An optional "0x" prefix and an odd number
// of digits are accepted; the odd leading nibble is treated as "0n".
func FromHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidHex
	}
	return data, nil
}
