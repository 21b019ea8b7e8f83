// Package sha256x implements SHA-256 from the FIPS 180-4 specification:
// message padding, the 64-round compression function, and the eight
// initial hash words, without delegating to crypto/sha256. It exposes
// both a one-shot Sum and a streaming digest that satisfies the
// standard library's hash.Hash interface, so it composes with
// crypto/hmac for RFC 6979 (see pkg/ecdsa) the same way a stdlib hash
// would.
package sha256x

import (
	"encoding/binary"
)

// Size is the size, in bytes, of a SHA-256 checksum.
const Size = 32

// BlockSize is the block size, in bytes, of SHA-256's compression
// function.
const BlockSize = 64

// initial hash values H(0), FIPS 180-4 §5.3.3.
var initH = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// round constants K, FIPS 180-4 §4.2.2.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func rotr(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }

// block runs the compression function over one or more 64-byte blocks,
// updating h in place.
func block(h *[8]uint32, p []byte) {
	var w [64]uint32
	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 64; i++ {
			s0 := rotr(w[i-15], 7) ^ rotr(w[i-15], 18) ^ (w[i-15] >> 3)
			s1 := rotr(w[i-2], 17) ^ rotr(w[i-2], 19) ^ (w[i-2] >> 10)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}

		a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]

		for i := 0; i < 64; i++ {
			s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
			ch := (e & f) ^ (^e & g)
			t1 := hh + s1 + ch + k[i] + w[i]
			s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
			maj := (a & b) ^ (a & c) ^ (b & c)
			t2 := s0 + maj

			hh, g, f, e = g, f, e, d+t1
			d, c, b, a = c, b, a, t1+t2
		}

		h[0] += a
		h[1] += b
		h[2] += c
		h[3] += d
		h[4] += e
		h[5] += f
		h[6] += g
		h[7] += hh

		p = p[BlockSize:]
	}
}

// digest is the streaming SHA-256 state, implementing hash.Hash.
type digest struct {
	h   [8]uint32
	buf [BlockSize]byte
	n   int    // bytes buffered in buf
	len uint64 // total bytes written
}

// New returns a new streaming SHA-256 hash.Hash.
func New() *digest {
	d := &digest{}
	d.Reset()
	return d
}

func (d *digest) Reset() {
	d.h = initH
	d.n = 0
	d.len = 0
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	total := len(p)
	d.len += uint64(total)

	if d.n > 0 {
		copied := copy(d.buf[d.n:], p)
		d.n += copied
		p = p[copied:]
		if d.n == BlockSize {
			block(&d.h, d.buf[:])
			d.n = 0
		}
	}
	if len(p) >= BlockSize {
		whole := len(p) - len(p)%BlockSize
		block(&d.h, p[:whole])
		p = p[whole:]
	}
	if len(p) > 0 {
		d.n = copy(d.buf[:], p)
	}
	return total, nil
}

// Sum appends the current digest to b and returns the resulting
// slice, without mutating the receiver's state.
func (d *digest) Sum(b []byte) []byte {
	clone := *d
	hash := clone.checkSum()
	return append(b, hash[:]...)
}

func (d *digest) checkSum() [Size]byte {
	// padding: 0x80, zero bytes until length % 64 == 56, then the
	// 8-byte big-endian bit length. FIPS 180-4 §5.1.1.
	length := d.len
	var tmp [BlockSize]byte
	tmp[0] = 0x80
	if d.len%64 < 56 {
		d.Write(tmp[0 : 56-d.len%64])
	} else {
		d.Write(tmp[0 : 64+56-d.len%64])
	}

	// length in bits, big-endian.
	length <<= 3
	binary.BigEndian.PutUint64(tmp[:8], length)
	d.Write(tmp[:8])

	if d.n != 0 {
		panic("sha256x: internal error: buffer not flushed")
	}

	var out [Size]byte
	for i, s := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// Sum256 computes the SHA-256 digest of data in one call.
func Sum256(data []byte) [Size]byte {
	d := New()
	_, _ = d.Write(data)
	return d.checkSum()
}

// Sum is an alias for Sum256 matching the "sha256(bytes) -> 32 bytes"
// contract used elsewhere in this module.
func Sum(data []byte) [Size]byte { return Sum256(data) }
