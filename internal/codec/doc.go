// Package codec holds the reversible text transforms used to keep task
// fields unreadable at rest and to protect transfer payloads.
//
// Two ciphers are available behind the same Cipher interface:
//
//   - "xor": a keystream XOR of the input with the cycled key bytes,
//     rendered as standard base64. It is kept so documents written by
//     earlier versions stay readable. It is obfuscation only: anyone who
//     has the ciphertext and a guess of the plaintext recovers the key.
//   - "aead": XChaCha20-Poly1305 under a key stretched from the password
//     with argon2id. Tampering or a wrong password is detected instead of
//     producing garbage.
//
// Both map the empty plaintext to the empty string and reject an empty key.
package codec
