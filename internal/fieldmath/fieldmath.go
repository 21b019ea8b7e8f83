// Package fieldmath implements modular arithmetic over an arbitrary
// prime field: an Element carries its value and modulus together so
// that Add, Sub and Mul return an error for two elements of different
// primes rather than a silently wrong answer.
package fieldmath

import (
	"math/big"

	"github.com/karpathy/cryptos/internal/bterrors"
)

// Element is a nonnegative integer modulo a prime p, with the
// invariant 0 <= Value < P.
type Element struct {
	Value *big.Int
	P     *big.Int
}

// New builds an Element, reducing value into [0, p).
func New(value, p *big.Int) *Element {
	v := new(big.Int).Mod(value, p)
	return &Element{Value: v, P: p}
}

// NewInt64 is a convenience constructor for small values.
func NewInt64(value int64, p *big.Int) *Element {
	return New(big.NewInt(value), p)
}

func (e *Element) sameField(other *Element, op string) error {
	if e.P.Cmp(other.P) != 0 {
		return bterrors.Newf(bterrors.Invariant, op, "mismatched field primes: %s != %s", e.P, other.P)
	}
	return nil
}

// Equal reports whether e and other have the same value in the same
// field.
func (e *Element) Equal(other *Element) bool {
	if other == nil {
		return false
	}
	return e.P.Cmp(other.P) == 0 && e.Value.Cmp(other.Value) == 0
}

// Add returns e + other mod p.
func (e *Element) Add(other *Element) (*Element, error) {
	if err := e.sameField(other, "Element.Add"); err != nil {
		return nil, err
	}
	sum := new(big.Int).Add(e.Value, other.Value)
	return New(sum, e.P), nil
}

// Sub returns e - other mod p.
func (e *Element) Sub(other *Element) (*Element, error) {
	if err := e.sameField(other, "Element.Sub"); err != nil {
		return nil, err
	}
	diff := new(big.Int).Sub(e.Value, other.Value)
	return New(diff, e.P), nil
}

// Mul returns e * other mod p.
func (e *Element) Mul(other *Element) (*Element, error) {
	if err := e.sameField(other, "Element.Mul"); err != nil {
		return nil, err
	}
	prod := new(big.Int).Mul(e.Value, other.Value)
	return New(prod, e.P), nil
}

// Pow returns e^exponent mod p via square-and-multiply. exponent may
// be negative, in which case it is first reduced to a positive
// equivalent using Fermat's little theorem (a^(p-1) == 1).
func (e *Element) Pow(exponent *big.Int) *Element {
	exp := new(big.Int).Set(exponent)
	if exp.Sign() < 0 {
		// big.Int.Mod is Euclidean and always returns a value in
		// [0, p-1), so this alone normalizes a negative exponent.
		pMinus1 := new(big.Int).Sub(e.P, big.NewInt(1))
		exp.Mod(exp, pMinus1)
	}
	result := new(big.Int).Exp(e.Value, exp, e.P)
	return New(result, e.P)
}

// Inverse returns the multiplicative inverse of e mod p via Fermat's
// little theorem: a^(p-2) mod p. e must be nonzero.
func (e *Element) Inverse() (*Element, error) {
	if e.Value.Sign() == 0 {
		return nil, bterrors.Newf(bterrors.Invariant, "Element.Inverse", "zero has no multiplicative inverse")
	}
	pMinus2 := new(big.Int).Sub(e.P, big.NewInt(2))
	return e.Pow(pMinus2), nil
}

// Neg returns -e mod p.
func (e *Element) Neg() *Element {
	neg := new(big.Int).Neg(e.Value)
	return New(neg, e.P)
}

// IsZero reports whether e is the additive identity.
func (e *Element) IsZero() bool { return e.Value.Sign() == 0 }

// Bytes returns the value as big-endian bytes, left-padded to size
// bytes.
func (e *Element) Bytes(size int) []byte {
	buf := make([]byte, size)
	b := e.Value.Bytes()
	copy(buf[size-len(b):], b)
	return buf
}
