// Package hexutil is the byte-order/hex conversion collaborator spec.md
// places out of scope for the hashing core: it carries no BLAKE3-specific
// logic and exists only so callers (the CLI, the test-vector loader) have a
// single place to go for hex encode/decode instead of each picking its own.
package hexutil

import fasthex "github.com/tmthrgd/go-hex"

// EncodedLen returns the length of the hex encoding of n source bytes.
func EncodedLen(n int) int { return fasthex.EncodedLen(n) }

// DecodedLen returns the length of the decoding of n hex-encoded bytes.
func DecodedLen(n int) int { return fasthex.DecodedLen(n) }

// Encode writes the hex encoding of src into dst, which must be at least
// EncodedLen(len(src)) bytes.
func Encode(dst, src []byte) int { return fasthex.Encode(dst, src) }

// EncodeToString returns the hex encoding of src.
func EncodeToString(src []byte) string { return fasthex.EncodeToString(src) }

// Decode decodes hex-encoded src into dst, which must be at least
// DecodedLen(len(src)) bytes.
func Decode(dst, src []byte) (int, error) { return fasthex.Decode(dst, src) }

// DecodeString returns the bytes represented by the hex string s.
func DecodeString(s string) ([]byte, error) { return fasthex.DecodeString(s) }
