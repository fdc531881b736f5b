// Package crypto wraps the primitives the wallet keychain is built on.
// Nothing in here knows about envelopes, tokens or headers; it only
// enforces sizes and exposes a uniform error set.
//
// # Algorithm Suite
//
//   - scrypt: password stretching, cost given as an exponent (N = 2^n).
//
//   - HMAC-SHA-256: sub-key derivation with a textual label as the message.
//
//   - AES-GCM: authenticated encryption with a 96-bit nonce and 128-bit tag.
//     Keys may be 128, 192 or 256 bits.
//
//   - Ed25519: detached request signatures. Private keys use the 64-byte
//     seed || public key layout.
//
// # Critical Security Notes
//
// AES-GCM nonces MUST be unique for each encryption with the same key. Nonce
// reuse completely breaks the security of AES-GCM, allowing attackers to
// recover the authentication key and forge messages. Always draw the nonce
// from [RandomBytes] with a cryptographically secure reader.
//
// # Encodings
//
//   - [ToBase64]: standard base64 with padding (RFC 4648 §4).
//   - [DecodeBase64]: same alphabet, padding optional, strict trailing bits.
//   - [ToBase58]/[FromBase58]: Bitcoin alphabet, used for recovery codes.
//   - [ToHex]/[FromHex]: lowercase hex digests and master keys.
package crypto
