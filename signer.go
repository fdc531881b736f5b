package keychain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/walletkeys/keychain-go/internal/crypto"
)

const (
	// AuthorizationHeader is the only header the signer sets.
	AuthorizationHeader = "Authorization"
	// AuthorizationScheme prefixes every signed Authorization value.
	AuthorizationScheme = "STELLAR-WALLET-V2"
)

var authorizationPattern = regexp.MustCompile(
	`^` + AuthorizationScheme + ` username="([^"\\]*)", wallet-id="([^"\\]*)", signature="([^"\\]*)"$`,
)

// Request is an outgoing request the signer can authenticate.
type Request interface {
	// Payload returns the request data that is serialized and signed.
	Payload() any
	// SetHeader sets or overwrites a header.
	SetHeader(key, value string)
}

// SignFunc attaches the Authorization header to a request.
type SignFunc func(Request) error

// SigningKey is an Ed25519 private key in the 64-byte seed || public key layout.
type SigningKey []byte

// String never prints key material.
func (k SigningKey) String() string {
	return fmt.Sprintf("SigningKey(%d bytes)", len(k))
}

// Base64 returns the standard base64 form accepted by NewRequestSigner.
func (k SigningKey) Base64() string {
	return crypto.ToBase64(k)
}

// PublicKey returns the 32-byte verification key.
func (k SigningKey) PublicKey() ([]byte, error) {
	pub, err := crypto.PublicKeyFromSigningKey(k)
	if err != nil {
		return nil, wrapError(err, "signing")
	}
	return pub, nil
}

// ParseSigningKey decodes a base64 signing key and checks its length.
func ParseSigningKey(secretKey string) (SigningKey, error) {
	raw, err := crypto.DecodeBase64(secretKey)
	if err != nil {
		return nil, &MalformedKeyError{Key: "signing", Err: err}
	}
	if len(raw) != crypto.Ed25519PrivateKeySize {
		return nil, &MalformedKeyError{Key: "signing", Err: crypto.ErrInvalidPrivateKeySize}
	}
	return SigningKey(raw), nil
}

// SigningKeyFromSeed expands a 32-byte seed, such as a DerivedKey, into a SigningKey.
func SigningKeyFromSeed(seed []byte) (SigningKey, error) {
	priv, err := crypto.SigningKeyFromSeed(seed)
	if err != nil {
		return nil, wrapError(err, "seed")
	}
	return SigningKey(priv), nil
}

// GenerateSigningKey creates a signing key from the Keychain's random source.
func (k *Keychain) GenerateSigningKey() (SigningKey, error) {
	priv, err := crypto.GenerateSigningKey(k.randReader())
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey(priv), nil
}

// CanonicalPayload serializes request data the way it is signed: JSON with
// no HTML escaping, raw U+2028 and U+2029, and no trailing newline, as
// JSON.stringify produces it. Raw bytes are used as-is and a nil payload is
// the empty byte string.
func CanonicalPayload(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return []byte{}, nil
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, &MalformedInputError{Field: "payload", Err: err}
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators undoes the \u2028 and \u2029 escapes encoding/json
// always applies, so the output matches JSON.stringify.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i:]; bytes.HasPrefix(rest, []byte(`\u2028`)) || bytes.HasPrefix(rest, []byte(`\u2029`)) {
			out = utf8.AppendRune(out, 0x2020+rune(rest[5]-'0'))
			i += 5
			continue
		}
		// Any other escape is copied whole so an escaped backslash is never
		// mistaken for the start of a new escape.
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// NewRequestSigner returns a SignFunc for username and walletID. secretKey
// is the base64 Ed25519 private key; it is validated here, before any
// request is signed.
func NewRequestSigner(username, walletID, secretKey string) (SignFunc, error) {
	key, err := ParseSigningKey(secretKey)
	if err != nil {
		return nil, err
	}
	return NewRequestSignerWithKey(username, walletID, key)
}

// NewRequestSignerWithKey is NewRequestSigner for an already decoded key.
func NewRequestSignerWithKey(username, walletID string, key SigningKey) (SignFunc, error) {
	if len(key) != crypto.Ed25519PrivateKeySize {
		return nil, &MalformedKeyError{Key: "signing", Err: crypto.ErrInvalidPrivateKeySize}
	}
	if err := checkHeaderValue("username", username); err != nil {
		return nil, err
	}
	if err := checkHeaderValue("wallet-id", walletID); err != nil {
		return nil, err
	}

	key = bytes.Clone(key)
	return func(req Request) error {
		payload, err := CanonicalPayload(req.Payload())
		if err != nil {
			return err
		}

		sig, err := crypto.SignDetached(key, payload)
		if err != nil {
			return wrapError(err, "signing")
		}

		auth := Authorization{
			Username:  username,
			WalletID:  walletID,
			Signature: crypto.ToBase64(sig),
		}
		req.SetHeader(AuthorizationHeader, auth.String())
		return nil
	}, nil
}

// checkHeaderValue rejects characters the header grammar cannot carry.
func checkHeaderValue(field, value string) error {
	if strings.ContainsAny(value, "\"\\\r\n") {
		return &MalformedInputError{Field: field, Err: errors.New(`must not contain '"', '\' or line breaks`)}
	}
	return nil
}

// Authorization is a parsed STELLAR-WALLET-V2 header.
type Authorization struct {
	Username  string
	WalletID  string
	Signature string // base64
}

func (a Authorization) String() string {
	return fmt.Sprintf(`%s username="%s", wallet-id="%s", signature="%s"`,
		AuthorizationScheme, a.Username, a.WalletID, a.Signature)
}

// ParseAuthorization parses the exact header grammar produced by the signer.
func ParseAuthorization(header string) (*Authorization, error) {
	m := authorizationPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, &MalformedInputError{Field: "authorization", Err: errors.New("does not match " + AuthorizationScheme + " grammar")}
	}
	return &Authorization{Username: m[1], WalletID: m[2], Signature: m[3]}, nil
}

// VerifyRequest checks header against payload under publicKey. It returns
// the parsed header on success and AuthenticationError if the payload
// differs from what was signed or the key does not match.
func VerifyRequest(header string, payload any, publicKey []byte) (*Authorization, error) {
	auth, err := ParseAuthorization(header)
	if err != nil {
		return nil, err
	}

	sig, err := crypto.DecodeBase64(auth.Signature)
	if err != nil {
		return nil, &MalformedInputError{Field: "signature", Err: err}
	}

	data, err := CanonicalPayload(payload)
	if err != nil {
		return nil, err
	}

	if err := crypto.VerifyDetached(publicKey, data, sig); err != nil {
		return nil, wrapError(err, "public")
	}
	return auth, nil
}

// HTTPRequest adapts *http.Request to Request. The body is the canonical
// payload, so the bytes sent are the bytes signed.
type HTTPRequest struct {
	*http.Request
	body []byte
}

// NewHTTPRequest builds a request whose body is CanonicalPayload(data).
func NewHTTPRequest(ctx context.Context, method, url string, data any) (*HTTPRequest, error) {
	body, err := CanonicalPayload(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return &HTTPRequest{Request: req, body: body}, nil
}

// Payload returns the canonical body bytes.
func (r *HTTPRequest) Payload() any {
	return json.RawMessage(r.body)
}

// SetHeader sets a header on the underlying request.
func (r *HTTPRequest) SetHeader(key, value string) {
	r.Header.Set(key, value)
}
