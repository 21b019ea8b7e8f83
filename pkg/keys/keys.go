// Package keys implements Bitcoin private/public key derivation, SEC
// point encoding, and Base58Check addresses.
package keys

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/curve"
	"github.com/karpathy/cryptos/internal/sha256x"
	"github.com/karpathy/cryptos/pkg/hash"
)

// MainnetVersion and TestnetVersion are the Base58Check address
// version bytes.
const (
	MainnetVersion byte = 0x00
	TestnetVersion byte = 0x6f
)

// PrivateKey is a secret scalar in [1, n).
type PrivateKey struct {
	Secret *big.Int
}

// PublicKey is a non-infinity point on secp256k1.
type PublicKey struct {
	Point *curve.Point
}

// NewRandomPrivateKey draws 32 bytes from r (crypto/rand.Reader by
// default), interprets them as a big-endian integer, reduces modulo
// n, and rejects the zero result by redrawing.
func NewRandomPrivateKey(r io.Reader) (*PrivateKey, error) {
	n := curve.Secp256k1().N
	for {
		buf := make([]byte, 32)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, bterrors.New(bterrors.Io, "NewRandomPrivateKey", err)
		}
		secret := new(big.Int).SetBytes(buf)
		secret.Mod(secret, n)
		if secret.Sign() != 0 {
			return &PrivateKey{Secret: secret}, nil
		}
		// secret == 0 on the negligible boundary; retry.
	}
}

// NewRandomPrivateKeyOS is a convenience wrapper drawing from
// crypto/rand.Reader.
func NewRandomPrivateKeyOS() (*PrivateKey, error) {
	return NewRandomPrivateKey(rand.Reader)
}

// NewPrivateKeyFromEntropy implements the user-entropy mixer: at least
// five textual inputs are concatenated and folded through SHA-256
// iteratively to build a seed, which is then reduced modulo n exactly
// like the OS-randomness path.
func NewPrivateKeyFromEntropy(inputs []string) (*PrivateKey, error) {
	if len(inputs) < 5 {
		return nil, bterrors.Newf(bterrors.Invariant, "NewPrivateKeyFromEntropy", "need at least 5 entropy inputs, got %d", len(inputs))
	}

	seed := sha256x.Sum([]byte(inputs[0]))
	for _, in := range inputs[1:] {
		combined := append(append([]byte{}, seed[:]...), []byte(in)...)
		seed = sha256x.Sum(combined)
	}

	n := curve.Secp256k1().N
	secret := new(big.Int).SetBytes(seed[:])
	secret.Mod(secret, n)
	if secret.Sign() == 0 {
		// Re-fold once more on the negligible zero boundary.
		seed = sha256x.Sum(seed[:])
		secret.SetBytes(seed[:])
		secret.Mod(secret, n)
	}
	return &PrivateKey{Secret: secret}, nil
}

// PublicKey derives e*G, the public point for this private key.
func (pk *PrivateKey) PublicKey() (*PublicKey, error) {
	g := curve.Secp256k1().G()
	p, err := g.ScalarMul(pk.Secret)
	if err != nil {
		return nil, err
	}
	return &PublicKey{Point: p}, nil
}

// SECUncompressed serializes the public key as 04||X(32)||Y(32).
func (pub *PublicKey) SECUncompressed() []byte {
	out := make([]byte, 65)
	out[0] = 0x04
	copy(out[1:33], pub.Point.X.Bytes(32))
	copy(out[33:65], pub.Point.Y.Bytes(32))
	return out
}

// SECCompressed serializes the public key as 02/03||X(32), the prefix
// byte encoding the parity of Y.
func (pub *PublicKey) SECCompressed() []byte {
	out := make([]byte, 33)
	if pub.Point.Y.Value.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	copy(out[1:33], pub.Point.X.Bytes(32))
	return out
}

// ParseSEC parses either SEC form, reconstructing Y from X for the
// compressed form via the curve's modular square root (p ≡ 3 mod 4,
// so sqrt(a) = a^((p+1)/4) mod p), choosing the root whose parity
// matches the prefix byte.
func ParseSEC(data []byte) (*PublicKey, error) {
	if len(data) == 0 {
		return nil, bterrors.Newf(bterrors.Parse, "ParseSEC", "empty input")
	}
	c := curve.Secp256k1()

	switch data[0] {
	case 0x04:
		if len(data) != 65 {
			return nil, bterrors.Newf(bterrors.Parse, "ParseSEC", "uncompressed SEC must be 65 bytes, got %d", len(data))
		}
		x := new(big.Int).SetBytes(data[1:33])
		y := new(big.Int).SetBytes(data[33:65])
		pt, err := c.NewPoint(x, y)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Point: pt}, nil

	case 0x02, 0x03:
		if len(data) != 33 {
			return nil, bterrors.Newf(bterrors.Parse, "ParseSEC", "compressed SEC must be 33 bytes, got %d", len(data))
		}
		x := new(big.Int).SetBytes(data[1:33])
		y, err := recoverY(x, c)
		if err != nil {
			return nil, err
		}
		wantOdd := data[0] == 0x03
		if y.Bit(0) == 1 != wantOdd {
			y = new(big.Int).Sub(c.P, y)
		}
		pt, err := c.NewPoint(x, y)
		if err != nil {
			return nil, err
		}
		return &PublicKey{Point: pt}, nil

	default:
		return nil, bterrors.Newf(bterrors.Parse, "ParseSEC", "invalid SEC prefix byte 0x%02x", data[0])
	}
}

// recoverY computes a y such that y^2 = x^3 + a*x + b (mod p), valid
// because secp256k1's p ≡ 3 (mod 4).
func recoverY(x *big.Int, c *curve.Curve) (*big.Int, error) {
	// rhs = x^3 + a*x + b; a = 0 for secp256k1 so this simplifies, but
	// compute generally in case this is ever reused for another curve.
	p := c.P
	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	ax := new(big.Int).Mul(c.A, x)
	rhs := new(big.Int).Add(x3, ax)
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, p)

	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Rsh(exp, 2) // (p+1)/4
	y := new(big.Int).Exp(rhs, exp, p)

	// Verify: y^2 == rhs (mod p); otherwise x was not a valid
	// x-coordinate on the curve.
	check := new(big.Int).Exp(y, big.NewInt(2), p)
	if check.Cmp(rhs) != 0 {
		return nil, bterrors.Newf(bterrors.Parse, "recoverY", "x has no square root mod p: not a valid curve point")
	}
	return y, nil
}

// Address is the Base58Check-encoded HASH160 of a compressed SEC
// public key.
func (pub *PublicKey) Address(version byte) string {
	h := hash.Sum160(pub.SECCompressed())
	payload := append([]byte{version}, h[:]...)
	return Base58CheckEncode(payload)
}
