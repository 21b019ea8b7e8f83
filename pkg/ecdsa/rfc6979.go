package ecdsa

import (
	"crypto/hmac"
	"hash"
	"math/big"

	"github.com/karpathy/cryptos/internal/sha256x"
)

// newSHA256 adapts sha256x.New to the hash.Hash-factory signature
// crypto/hmac expects, so HMAC's generic construction runs over our
// from-scratch SHA-256 rather than crypto/sha256.
func newSHA256() hash.Hash { return sha256x.New() }

func hmacSum(key, data []byte) []byte {
	mac := hmac.New(newSHA256, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// rfc6979Generator implements the HMAC-DRBG nonce construction of
// RFC 6979 §3.2 specialized to SHA-256, whose 32-byte output length
// happens to equal secp256k1's order length (qlen == hlen == 32),
// which is what lets bits2int/bits2octets collapse to a plain
// big-endian byte interpretation below.
type rfc6979Generator struct {
	k, v []byte
	n    *big.Int
}

// newRFC6979Generator sets up the generator for private key x and
// message digest z (already an integer).
func newRFC6979Generator(x, z, n *big.Int) *rfc6979Generator {
	xOctets := leftPad(x.Bytes(), 32)

	z2 := new(big.Int).Mod(z, n)
	hOctets := leftPad(z2.Bytes(), 32)

	v := make([]byte, 32)
	for i := range v {
		v[i] = 0x01
	}
	k := make([]byte, 32)

	k = hmacSum(k, concat(v, []byte{0x00}, xOctets, hOctets))
	v = hmacSum(k, v)
	k = hmacSum(k, concat(v, []byte{0x01}, xOctets, hOctets))
	v = hmacSum(k, v)

	return &rfc6979Generator{k: k, v: v, n: n}
}

// Next returns the next deterministic candidate nonce in [1, n). Call
// again to continue the same HMAC-DRBG state if a candidate turns out
// unusable (r == 0 or s == 0 in the caller's signing loop), per
// RFC 6979's retry procedure: K and V are advanced after every
// candidate, so the next call starts from the updated state.
func (g *rfc6979Generator) Next() *big.Int {
	for {
		g.v = hmacSum(g.k, g.v)
		cand := new(big.Int).SetBytes(g.v)
		g.k = hmacSum(g.k, concat(g.v, []byte{0x00}))
		g.v = hmacSum(g.k, g.v)
		if cand.Sign() > 0 && cand.Cmp(g.n) < 0 {
			return cand
		}
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
