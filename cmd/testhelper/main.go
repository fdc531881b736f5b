// Command testhelper exposes the keychain primitives over stdin/stdout JSON so
// another implementation can cross-check derivation, envelopes and signatures.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	keychain "github.com/walletkeys/keychain-go"
	"github.com/walletkeys/keychain-go/internal/crypto"
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

// Config holds the streams a command reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type command func(cfg *Config) error

var commands = map[string]command{
	"derive":        runDerive,
	"derive-subkey": runDeriveSubKey,
	"seal":          runSeal,
	"open":          runOpen,
	"sign":          runSign,
	"verify":        runVerify,
	"digest":        runDigest,
	"recovery-code": runRecoveryCode,
}

func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: testhelper <command>")
	}

	cmd, ok := commands[args[1]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[1])
	}
	return cmd(cfg)
}

// DeriveInput is the request for the derive command.
type DeriveInput struct {
	S0       string             `json:"s0"`
	Username string             `json:"username"`
	Password string             `json:"password"`
	Params   keychain.KdfParams `json:"params"`
	Legacy   bool               `json:"legacy,omitempty"`
}

// DeriveOutput carries the master key in hex and both sub-keys in base64.
type DeriveOutput struct {
	MasterKey string `json:"masterKey"`
	WalletID  string `json:"walletId"`
	WalletKey string `json:"walletKey"`
}

func runDerive(cfg *Config) error {
	var in DeriveInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	version := keychain.KDFVersionV1
	if in.Legacy {
		version = keychain.KDFVersionLegacy
	}
	kc := keychain.New(keychain.WithKDFVersion(version))

	master, err := kc.DeriveMasterKey(in.S0, in.Username, in.Password, in.Params)
	if err != nil {
		return fmt.Errorf("derive master key: %w", err)
	}
	defer master.Wipe()

	walletID, err := keychain.DeriveWalletID(master)
	if err != nil {
		return fmt.Errorf("derive wallet id: %w", err)
	}
	walletKey, err := keychain.DeriveWalletKey(master)
	if err != nil {
		return fmt.Errorf("derive wallet key: %w", err)
	}

	return writeOutput(cfg, DeriveOutput{
		MasterKey: crypto.ToHex(master),
		WalletID:  walletID.Base64(),
		WalletKey: walletKey.Base64(),
	})
}

// SubKeyInput names a hex master key and a derivation token.
type SubKeyInput struct {
	MasterKey string `json:"masterKey"`
	Token     string `json:"token"`
}

// KeyOutput carries a single base64 key.
type KeyOutput struct {
	Key string `json:"key"`
}

func runDeriveSubKey(cfg *Config) error {
	var in SubKeyInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	master, err := crypto.FromHex(in.MasterKey)
	if err != nil {
		return fmt.Errorf("decode master key: %w", err)
	}

	key, err := keychain.DeriveSubKey(keychain.MasterKey(master), keychain.Token(in.Token))
	if err != nil {
		return fmt.Errorf("derive sub-key: %w", err)
	}
	return writeOutput(cfg, KeyOutput{Key: key.Base64()})
}

// SealInput is the request for the seal command.
type SealInput struct {
	Plaintext string `json:"plaintext"`
	Key       string `json:"key"`
}

// EnvelopeOutput carries an encoded envelope.
type EnvelopeOutput struct {
	Envelope string `json:"envelope"`
}

func runSeal(cfg *Config) error {
	var in SealInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	key, err := decodeKey(in.Key)
	if err != nil {
		return err
	}

	envelope, err := keychain.Seal(in.Plaintext, key)
	if err != nil {
		return fmt.Errorf("seal: %w", err)
	}
	return writeOutput(cfg, EnvelopeOutput{Envelope: envelope})
}

// OpenInput is the request for the open command.
type OpenInput struct {
	Envelope string `json:"envelope"`
	Key      string `json:"key"`
}

// PlaintextOutput carries recovered plaintext.
type PlaintextOutput struct {
	Plaintext string `json:"plaintext"`
}

func runOpen(cfg *Config) error {
	var in OpenInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	key, err := decodeKey(in.Key)
	if err != nil {
		return err
	}

	plaintext, err := keychain.Open(in.Envelope, key)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	return writeOutput(cfg, PlaintextOutput{Plaintext: plaintext})
}

// SignInput is the request for the sign command. SecretKey is either a
// 64-byte base64 signing key or, when Seed is set, a 32-byte base64 seed.
type SignInput struct {
	Username  string          `json:"username"`
	WalletID  string          `json:"walletId"`
	SecretKey string          `json:"secretKey"`
	Seed      bool            `json:"seed,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// SignOutput carries the header value and the matching public key.
type SignOutput struct {
	Authorization string `json:"authorization"`
	PublicKey     string `json:"publicKey"`
}

// request captures the header the signer sets.
type request struct {
	payload json.RawMessage
	headers map[string]string
}

func (r *request) Payload() any { return r.payload }

func (r *request) SetHeader(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
}

func runSign(cfg *Config) error {
	var in SignInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	key, err := signingKey(in)
	if err != nil {
		return err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}

	sign, err := keychain.NewRequestSignerWithKey(in.Username, in.WalletID, key)
	if err != nil {
		return fmt.Errorf("create signer: %w", err)
	}

	payload, err := compactPayload(in.Payload)
	if err != nil {
		return err
	}

	req := &request{payload: payload}
	if err := sign(req); err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	return writeOutput(cfg, SignOutput{
		Authorization: req.headers[keychain.AuthorizationHeader],
		PublicKey:     crypto.ToBase64(pub),
	})
}

func signingKey(in SignInput) (keychain.SigningKey, error) {
	if !in.Seed {
		key, err := keychain.ParseSigningKey(in.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("parse signing key: %w", err)
		}
		return key, nil
	}

	seed, err := crypto.DecodeBase64(in.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	key, err := keychain.SigningKeyFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("expand seed: %w", err)
	}
	return key, nil
}

// VerifyInput is the request for the verify command.
type VerifyInput struct {
	Authorization string          `json:"authorization"`
	PublicKey     string          `json:"publicKey"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// VerifyOutput reports the identity bound by a valid signature.
type VerifyOutput struct {
	Username string `json:"username"`
	WalletID string `json:"walletId"`
}

func runVerify(cfg *Config) error {
	var in VerifyInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	pub, err := crypto.DecodeBase64(in.PublicKey)
	if err != nil {
		return fmt.Errorf("decode public key: %w", err)
	}

	payload, err := compactPayload(in.Payload)
	if err != nil {
		return err
	}

	auth, err := keychain.VerifyRequest(in.Authorization, payload, pub)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return writeOutput(cfg, VerifyOutput{Username: auth.Username, WalletID: auth.WalletID})
}

// DigestInput is the request for the digest command.
type DigestInput struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// DigestOutput carries a lowercase hex digest.
type DigestOutput struct {
	Digest string `json:"digest"`
}

func runDigest(cfg *Config) error {
	var in DigestInput
	if err := readInput(cfg, &in); err != nil {
		return err
	}

	alg, err := keychain.ParseAlgorithm(in.Algorithm)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	digest, err := keychain.Digest(alg, []byte(in.Value))
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	return writeOutput(cfg, DigestOutput{Digest: digest})
}

// RecoveryOutput carries a fresh recovery code in both encodings.
type RecoveryOutput struct {
	Code     string `json:"code"`
	Mnemonic string `json:"mnemonic"`
}

func runRecoveryCode(cfg *Config) error {
	code, err := keychain.GenerateRecoveryCode()
	if err != nil {
		return fmt.Errorf("generate recovery code: %w", err)
	}
	mnemonic, err := code.Mnemonic()
	if err != nil {
		return fmt.Errorf("encode mnemonic: %w", err)
	}
	return writeOutput(cfg, RecoveryOutput{Code: string(code), Mnemonic: mnemonic})
}

// compactPayload strips insignificant whitespace so the signed bytes are
// what JSON.stringify produces for the same document.
func compactPayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("compact payload: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeKey(s string) (keychain.DerivedKey, error) {
	raw, err := crypto.DecodeBase64(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return keychain.DerivedKey(raw), nil
}

func readInput(cfg *Config, v any) error {
	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

func writeOutput(cfg *Config, v any) error {
	if err := json.NewEncoder(cfg.Stdout).Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	exitFunc(1)
}
