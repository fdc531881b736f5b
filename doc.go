// Package keychain implements the client-side key protocol of the wallet:
// it stretches a password into a master key, derives purpose-bound sub-keys,
// seals local data in self-describing envelopes and signs API requests.
//
// Basic usage:
//
//	kc := keychain.New(keychain.WithLogger(logger))
//
//	master, err := kc.DeriveMasterKey(s0, username, password, params)
//	if err != nil {
//	    return err
//	}
//	defer master.Wipe()
//
//	walletKey, err := keychain.DeriveWalletKey(master)
//	if err != nil {
//	    return err
//	}
//
//	sealed, err := kc.Seal(walletJSON, walletKey)
//
// # Master key
//
// The salt is SHA-256(0x01 || base64decode(s0) || username) and the key is
// scrypt(password, salt, 2^n, r, p, bits/8). Inputs are validated before
// scrypt runs. [KDFVersionLegacy] re-derives keys of accounts created
// before the version tag and must be selected explicitly.
//
// # Sub-keys
//
// [DeriveSubKey] is HMAC-SHA-256 keyed by the master key over one of the
// fixed [Token] labels, WALLET_ID or WALLET_KEY.
//
// # Envelopes
//
// An envelope string is base64(JSON{IV, cipherText, cipherName, modeName})
// with AES-GCM, a fresh 96-bit IV per call and the tag appended to the
// ciphertext. [Keychain.Open] separates unreadable data ([ErrDataCorrupt])
// from failed authentication ([ErrAuthenticationFailure]).
//
// # Request signing
//
// [NewRequestSigner] returns a function that sets
//
//	Authorization: STELLAR-WALLET-V2 username="<u>", wallet-id="<w>", signature="<s>"
//
// where <s> is a base64 Ed25519 detached signature over [CanonicalPayload].
//
// # Errors
//
// Errors caused by the inputs implement [KeychainError] and match one of
// [ErrMalformedInput], [ErrDataCorrupt], [ErrAuthenticationFailure],
// [ErrUnsupportedAlgorithm] or [ErrMalformedKey] through errors.Is.
// Failures of the environment (the random source, reading a profile file,
// building an HTTP request) are wrapped with context and left unclassified.
// Nothing panics on bad input.
package keychain
