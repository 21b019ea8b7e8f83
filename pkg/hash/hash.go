// Package hash provides Bitcoin's two composite hash functions:
// HASH256 (double SHA-256) and HASH160 (RIPEMD-160 of SHA-256), built
// on the from-scratch internal/sha256x primitive plus, for RIPEMD-160,
// golang.org/x/crypto/ripemd160 — the one external hash dependency
// used here, since only its 32-byte-in/20-byte-out interface is
// needed.
package hash

import (
	"encoding/hex"

	"github.com/karpathy/cryptos/internal/sha256x"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 itself is legacy, but required for HASH160
)

// Hash256 is a 32-byte double-SHA-256 digest.
type Hash256 [32]byte

// Hash160 is a 20-byte RIPEMD160(SHA256(x)) digest, used for address
// payloads and OP_HASH160.
type Hash160 [20]byte

// String returns the hash as lowercase hex.
func (h Hash256) String() string { return hex.EncodeToString(h[:]) }

// String returns the hash as lowercase hex.
func (h Hash160) String() string { return hex.EncodeToString(h[:]) }

// Sum256 computes HASH256(data) = SHA256(SHA256(data)).
func Sum256(data []byte) Hash256 {
	first := sha256x.Sum(data)
	second := sha256x.Sum(first[:])
	return Hash256(second)
}

// Sum160 computes HASH160(data) = RIPEMD160(SHA256(data)).
func Sum160(data []byte) Hash160 {
	sha := sha256x.Sum(data)
	r := ripemd160.New()
	_, _ = r.Write(sha[:])
	var out Hash160
	copy(out[:], r.Sum(nil))
	return out
}

// ReverseBytes returns a copy of b with byte order reversed, used
// throughout the wire format to flip between internal little-endian
// and display big-endian hash representations.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
