package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

// rfcSeed is the RFC 8032 test 1 secret key.
const (
	rfcSeed      = "nWGxne/9WmC6hEr0kuwsxERJxWl7MmkZcDusAxyuf2A="
	rfcPublicKey = "11qYAYKxCrfVS/7TyWQHOg7hcvPapiMlrwIaaPcHURo="
	testKey      = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func runCommand(t *testing.T, name, input string, out any) error {
	t.Helper()

	stdout := &bytes.Buffer{}
	cfg := &Config{Stdin: strings.NewReader(input), Stdout: stdout}
	if err := run([]string{"testhelper", name}, cfg); err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
			t.Fatalf("json.Unmarshal(%q) error = %v", stdout.String(), err)
		}
	}
	return nil
}

func mustRun(t *testing.T, name string, input any, out any) {
	t.Helper()

	data, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if err := runCommand(t, name, string(data), out); err != nil {
		t.Fatalf("run(%s) error = %v", name, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Stdin != os.Stdin {
		t.Error("DefaultConfig().Stdin should be os.Stdin")
	}
	if cfg.Stdout != os.Stdout {
		t.Error("DefaultConfig().Stdout should be os.Stdout")
	}
	if cfg.Stderr != os.Stderr {
		t.Error("DefaultConfig().Stderr should be os.Stderr")
	}
}

func TestRun_NoArgs(t *testing.T) {
	cfg := &Config{Stdout: &bytes.Buffer{}}
	err := run([]string{"testhelper"}, cfg)
	if err == nil {
		t.Fatal("run() should return error with no args")
	}
	if !strings.Contains(err.Error(), "usage") {
		t.Errorf("error should contain 'usage', got %v", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	cfg := &Config{Stdout: &bytes.Buffer{}}
	err := run([]string{"testhelper", "unknown-command"}, cfg)
	if err == nil {
		t.Fatal("run() should return error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("error should contain 'unknown command', got %v", err)
	}
}

func TestRun_ReadError(t *testing.T) {
	cfg := &Config{Stdin: errReader{}, Stdout: &bytes.Buffer{}}
	err := run([]string{"testhelper", "seal"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "read stdin") {
		t.Errorf("run() error = %v, want read stdin error", err)
	}
}

func TestRun_InvalidJSON(t *testing.T) {
	for name := range commands {
		if name == "recovery-code" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			err := runCommand(t, name, "{not json", nil)
			if err == nil || !strings.Contains(err.Error(), "parse input") {
				t.Errorf("run(%s) error = %v, want parse input error", name, err)
			}
		})
	}
}

func TestRun_EncodeError(t *testing.T) {
	cfg := &Config{Stdin: strings.NewReader(`{"algorithm":"sha256","value":"abc"}`), Stdout: errWriter{}}
	err := run([]string{"testhelper", "digest"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "encode output") {
		t.Errorf("run() error = %v, want encode output error", err)
	}
}

func TestDerive(t *testing.T) {
	in := DeriveInput{
		S0:       "c29tZXNhbHQ=",
		Username: "alice",
		Password: "correct horse",
	}
	in.Params.N, in.Params.R, in.Params.P, in.Params.Bits = 4, 8, 1, 256

	var out DeriveOutput
	mustRun(t, "derive", in, &out)

	want := "8f4be744ef1e21a4984892e81b1e6c3577662c6f266a528044411b1c41e51ee6"
	if out.MasterKey != want {
		t.Errorf("MasterKey = %s, want %s", out.MasterKey, want)
	}
	if out.WalletID == "" || out.WalletKey == "" || out.WalletID == out.WalletKey {
		t.Errorf("sub-keys not distinct: id=%q key=%q", out.WalletID, out.WalletKey)
	}

	var sub KeyOutput
	mustRun(t, "derive-subkey", SubKeyInput{MasterKey: out.MasterKey, Token: "WALLET_ID"}, &sub)
	if sub.Key != out.WalletID {
		t.Errorf("derive-subkey WALLET_ID = %s, want %s", sub.Key, out.WalletID)
	}
}

func TestDerive_Legacy(t *testing.T) {
	in := DeriveInput{
		S0:       "c29tZXNhbHQ=",
		Username: "alice",
		Password: "correct horse",
		Legacy:   true,
	}
	in.Params.N, in.Params.R, in.Params.P, in.Params.Bits = 4, 8, 1, 32

	var out DeriveOutput
	mustRun(t, "derive", in, &out)

	want := "ee9df9c4c06354d953ef3174e2158510ed0b04e5e9005108aca38da858629fc9"
	if out.MasterKey != want {
		t.Errorf("MasterKey = %s, want %s", out.MasterKey, want)
	}
}

func TestDerive_InvalidParams(t *testing.T) {
	err := runCommand(t, "derive", `{"s0":"c29tZXNhbHQ=","username":"alice","password":"x","params":{"n":0,"r":8,"p":1,"bits":256}}`, nil)
	if err == nil || !strings.Contains(err.Error(), "derive master key") {
		t.Errorf("run(derive) error = %v, want derive master key error", err)
	}
}

func TestDeriveSubKey_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad hex", `{"masterKey":"zz","token":"WALLET_ID"}`, "decode master key"},
		{"unknown token", `{"masterKey":"00ff","token":"WALLET_PIN"}`, "derive sub-key"},
		{"empty key", `{"masterKey":"","token":"WALLET_ID"}`, "derive sub-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCommand(t, "derive-subkey", tt.input, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(derive-subkey) error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSealOpen(t *testing.T) {
	var sealed EnvelopeOutput
	mustRun(t, "seal", SealInput{Plaintext: "hello wallet", Key: testKey}, &sealed)
	if sealed.Envelope == "" {
		t.Fatal("Envelope is empty")
	}

	var opened PlaintextOutput
	mustRun(t, "open", OpenInput{Envelope: sealed.Envelope, Key: testKey}, &opened)
	if opened.Plaintext != "hello wallet" {
		t.Errorf("Plaintext = %q, want %q", opened.Plaintext, "hello wallet")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	var sealed EnvelopeOutput
	mustRun(t, "seal", SealInput{Plaintext: "hello wallet", Key: testKey}, &sealed)

	other := "HxweHRwbGhkYFxYVFBMSERAPDg0MCwoJCAcGBQQDAgE="
	input, _ := json.Marshal(OpenInput{Envelope: sealed.Envelope, Key: other})
	err := runCommand(t, "open", string(input), nil)
	if err == nil || !strings.Contains(err.Error(), "authentication failure") {
		t.Errorf("run(open) error = %v, want authentication failure", err)
	}
}

func TestSeal_BadKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"not base64", "!!!", "decode key"},
		{"short key", "AAEC", "seal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, _ := json.Marshal(SealInput{Plaintext: "x", Key: tt.key})
			err := runCommand(t, "seal", string(input), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(seal) error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSignVerify(t *testing.T) {
	payload := json.RawMessage(`{"amount":"10","to":"GABC"}`)

	var signed SignOutput
	mustRun(t, "sign", SignInput{
		Username:  "alice",
		WalletID:  "d2FsbGV0",
		SecretKey: rfcSeed,
		Seed:      true,
		Payload:   payload,
	}, &signed)

	if signed.PublicKey != rfcPublicKey {
		t.Errorf("PublicKey = %s, want %s", signed.PublicKey, rfcPublicKey)
	}
	prefix := `STELLAR-WALLET-V2 username="alice", wallet-id="d2FsbGV0", signature="`
	if !strings.HasPrefix(signed.Authorization, prefix) {
		t.Errorf("Authorization = %q, want prefix %q", signed.Authorization, prefix)
	}

	var verified VerifyOutput
	mustRun(t, "verify", VerifyInput{
		Authorization: signed.Authorization,
		PublicKey:     signed.PublicKey,
		Payload:       payload,
	}, &verified)
	if verified.Username != "alice" || verified.WalletID != "d2FsbGV0" {
		t.Errorf("verify = %+v", verified)
	}

	input, _ := json.Marshal(VerifyInput{
		Authorization: signed.Authorization,
		PublicKey:     signed.PublicKey,
		Payload:       json.RawMessage(`{"amount":"11","to":"GABC"}`),
	})
	err := runCommand(t, "verify", string(input), nil)
	if err == nil || !strings.Contains(err.Error(), "authentication failure") {
		t.Errorf("run(verify) tampered error = %v, want authentication failure", err)
	}
}

func TestSign_CompactsPayload(t *testing.T) {
	sign := func(payload string) SignOutput {
		t.Helper()
		input := `{"username":"alice","walletId":"d2FsbGV0","secretKey":"` + rfcSeed + `","seed":true,"payload":` + payload + `}`
		var out SignOutput
		if err := runCommand(t, "sign", input, &out); err != nil {
			t.Fatalf("run(sign) error = %v", err)
		}
		return out
	}

	spaced := sign("{ \"amount\" : \"10\",\n  \"to\": [ \"GABC\" ] }")
	compact := sign(`{"amount":"10","to":["GABC"]}`)
	if spaced.Authorization != compact.Authorization {
		t.Errorf("Authorization differs with whitespace:\n%s\n%s", spaced.Authorization, compact.Authorization)
	}

	input := `{"authorization":` + jsonString(spaced.Authorization) + `,"publicKey":"` + spaced.PublicKey + `","payload":{ "amount": "10", "to": ["GABC"] }}`
	var verified VerifyOutput
	if err := runCommand(t, "verify", input, &verified); err != nil {
		t.Fatalf("run(verify) error = %v", err)
	}
	if verified.Username != "alice" {
		t.Errorf("Username = %q, want alice", verified.Username)
	}
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestSign_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input SignInput
		want  string
	}{
		{"short signing key", SignInput{Username: "a", WalletID: "w", SecretKey: rfcSeed}, "parse signing key"},
		{"bad seed encoding", SignInput{Username: "a", WalletID: "w", SecretKey: "!!", Seed: true}, "decode seed"},
		{"short seed", SignInput{Username: "a", WalletID: "w", SecretKey: "AAEC", Seed: true}, "expand seed"},
		{"quoted username", SignInput{Username: `a"b`, WalletID: "w", SecretKey: rfcSeed, Seed: true}, "create signer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, _ := json.Marshal(tt.input)
			err := runCommand(t, "sign", string(input), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(sign) error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestVerify_BadPublicKey(t *testing.T) {
	err := runCommand(t, "verify", `{"authorization":"x","publicKey":"%%"}`, nil)
	if err == nil || !strings.Contains(err.Error(), "decode public key") {
		t.Errorf("run(verify) error = %v, want decode public key error", err)
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		algorithm string
		value     string
		want      string
	}{
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"SHA-1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			var out DigestOutput
			mustRun(t, "digest", DigestInput{Algorithm: tt.algorithm, Value: tt.value}, &out)
			if out.Digest != tt.want {
				t.Errorf("Digest = %s, want %s", out.Digest, tt.want)
			}
		})
	}

	err := runCommand(t, "digest", `{"algorithm":"md5","value":"abc"}`, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported algorithm") {
		t.Errorf("run(digest md5) error = %v, want unsupported algorithm", err)
	}
}

func TestRecoveryCode(t *testing.T) {
	var out RecoveryOutput
	if err := runCommand(t, "recovery-code", "", &out); err != nil {
		t.Fatalf("run(recovery-code) error = %v", err)
	}
	if out.Code == "" {
		t.Error("Code is empty")
	}
	if got := len(strings.Fields(out.Mnemonic)); got != 24 {
		t.Errorf("mnemonic has %d words, want 24", got)
	}
}

func TestFatal(t *testing.T) {
	originalExitFunc := exitFunc
	defer func() { exitFunc = originalExitFunc }()

	var exitCode int
	exitFunc = func(code int) {
		exitCode = code
	}

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fatal("error %d: %s", 42, "something went wrong")

	w.Close()
	os.Stderr = oldStderr
	var buf bytes.Buffer
	buf.ReadFrom(r)

	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1", exitCode)
	}
	expected := "error 42: something went wrong\n"
	if buf.String() != expected {
		t.Errorf("output = %q, want %q", buf.String(), expected)
	}
}
