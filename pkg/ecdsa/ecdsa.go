// Package ecdsa implements Bitcoin's ECDSA signing and verification
// over secp256k1: RFC 6979 deterministic nonces, low-S normalization,
// and DER signature encoding.
package ecdsa

import (
	"math/big"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/curve"
	"github.com/karpathy/cryptos/pkg/keys"
)

// Signature is an (r, s) pair, both in [1, n).
type Signature struct {
	R, S *big.Int
}

// Sign produces a deterministic, low-S signature over digest z
// (already reduced to an integer, e.g. via HASH256) under private
// key pk.
func Sign(pk *keys.PrivateKey, z *big.Int) (*Signature, error) {
	c := curve.Secp256k1()
	n := c.N
	g := c.G()

	gen := newRFC6979Generator(pk.Secret, z, n)

	for {
		k := gen.Next()

		r1, err := g.ScalarMul(k)
		if err != nil {
			return nil, err
		}
		if r1.Infinity {
			continue
		}
		r := new(big.Int).Mod(r1.X.Value, n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		s := new(big.Int).Mul(r, pk.Secret)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		// low-S normalization.
		halfN := new(big.Int).Rsh(n, 1)
		if s.Cmp(halfN) > 0 {
			s.Sub(n, s)
		}

		return &Signature{R: r, S: s}, nil
	}
}

// Verify checks signature sig over digest z against public key pub.
func Verify(pub *keys.PublicKey, z *big.Int, sig *Signature) bool {
	c := curve.Secp256k1()
	n := c.N

	one := big.NewInt(1)
	if sig.R.Cmp(one) < 0 || sig.R.Cmp(n) >= 0 {
		return false
	}
	if sig.S.Cmp(one) < 0 || sig.S.Cmp(n) >= 0 {
		return false
	}

	sInv := new(big.Int).ModInverse(sig.S, n)
	if sInv == nil {
		return false
	}

	u1 := new(big.Int).Mul(z, sInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.R, sInv)
	u2.Mod(u2, n)

	g := c.G()
	p1, err := g.ScalarMul(u1)
	if err != nil {
		return false
	}
	p2, err := pub.Point.ScalarMul(u2)
	if err != nil {
		return false
	}
	sum, err := p1.Add(p2)
	if err != nil {
		return false
	}
	if sum.Infinity {
		return false
	}

	x := new(big.Int).Mod(sum.X.Value, n)
	return x.Cmp(sig.R) == 0
}

// Serialize encodes sig in DER form:
// 0x30 len 0x02 len(r) r 0x02 len(s) s.
func (sig *Signature) Serialize() []byte {
	rBytes := serializeInt(sig.R)
	sBytes := serializeInt(sig.S)

	body := make([]byte, 0, len(rBytes)+len(sBytes)+4)
	body = append(body, 0x02, byte(len(rBytes)))
	body = append(body, rBytes...)
	body = append(body, 0x02, byte(len(sBytes)))
	body = append(body, sBytes...)

	out := make([]byte, 0, len(body)+2)
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}

// serializeInt encodes v as unpadded big-endian bytes, left-padding
// with a single 0x00 when the high bit is set so the DER INTEGER is
// never read as negative.
func serializeInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		return padded
	}
	return b
}

// ParseDER parses a DER-encoded signature.
func ParseDER(data []byte) (*Signature, error) {
	const op = "ParseDER"
	if len(data) < 6 || data[0] != 0x30 {
		return nil, bterrors.Newf(bterrors.Parse, op, "bad DER signature header")
	}
	totalLen := int(data[1])
	if totalLen+2 != len(data) {
		return nil, bterrors.Newf(bterrors.Parse, op, "incorrect signature length: declared %d, have %d", totalLen, len(data)-2)
	}

	rest := data[2:]
	r, rest, err := parseDERInt(rest)
	if err != nil {
		return nil, err
	}
	s, rest, err := parseDERInt(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, bterrors.Newf(bterrors.Parse, op, "trailing bytes after signature")
	}
	return &Signature{R: r, S: s}, nil
}

func parseDERInt(data []byte) (*big.Int, []byte, error) {
	const op = "ParseDER"
	if len(data) < 2 || data[0] != 0x02 {
		return nil, nil, bterrors.Newf(bterrors.Parse, op, "expected DER INTEGER marker")
	}
	n := int(data[1])
	if len(data) < 2+n {
		return nil, nil, bterrors.Newf(bterrors.Parse, op, "truncated DER integer")
	}
	v := new(big.Int).SetBytes(data[2 : 2+n])
	return v, data[2+n:], nil
}
