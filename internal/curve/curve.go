// Package curve implements short Weierstrass elliptic curve group law
// over a prime field (Point, Curve) and the secp256k1 parameters used
// throughout the rest of the core. Curve constants are an immutable
// typed record, not implicit global state: every Point
// carries a reference to the Curve it belongs to, so Add returns an
// error for points of different curves.
package curve

import (
	"math/big"
	"sync"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/fieldmath"
)

// Curve is a short Weierstrass curve y^2 = x^3 + a*x + b over a prime
// field of characteristic P, with published generator G and order N.
type Curve struct {
	A, B *big.Int
	P    *big.Int
	N    *big.Int
	Gx   *big.Int
	Gy   *big.Int
}

// Point is a point on a Curve, or the distinguished point at infinity
// when Infinity is true.
type Point struct {
	Curve    *Curve
	X, Y     *fieldmath.Element
	Infinity bool
}

// Infinity returns the identity element (point at infinity) of c.
func (c *Curve) Infinity() *Point {
	return &Point{Curve: c, Infinity: true}
}

// NewPoint constructs a Point on c, validating that it satisfies the
// curve equation. Passing (nil, nil) is rejected; use Curve.Infinity
// for O.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil {
		return nil, bterrors.Newf(bterrors.Invariant, "Curve.NewPoint", "nil coordinate; use Curve.Infinity for O")
	}
	xe := fieldmath.New(x, c.P)
	ye := fieldmath.New(y, c.P)

	if !c.onCurve(xe, ye) {
		return nil, bterrors.Newf(bterrors.Parse, "Curve.NewPoint", "point (%s, %s) is not on the curve", x, y)
	}
	return &Point{Curve: c, X: xe, Y: ye}, nil
}

func (c *Curve) onCurve(x, y *fieldmath.Element) bool {
	// y^2 == x^3 + a*x + b (mod p)
	ySq, _ := y.Mul(y)
	xSq, _ := x.Mul(x)
	xCubed, _ := xSq.Mul(x)
	a := fieldmath.New(c.A, c.P)
	aX, _ := a.Mul(x)
	rhs, _ := xCubed.Add(aX)
	rhs, _ = rhs.Add(fieldmath.New(c.B, c.P))
	return ySq.Equal(rhs)
}

func (c *Curve) sameCurve(other *Curve) bool {
	return c.P.Cmp(other.P) == 0 && c.A.Cmp(other.A) == 0 && c.B.Cmp(other.B) == 0
}

// Equal reports whether p and other denote the same point on the same
// curve.
func (p *Point) Equal(other *Point) bool {
	if other == nil || !p.Curve.sameCurve(other.Curve) {
		return false
	}
	if p.Infinity || other.Infinity {
		return p.Infinity == other.Infinity
	}
	return p.X.Equal(other.X) && p.Y.Equal(other.Y)
}

// Add implements the chord-tangent group law: O is the identity, P+(-P)=O,
// tangent doubling when P==Q, chord addition otherwise.
func (p *Point) Add(q *Point) (*Point, error) {
	if !p.Curve.sameCurve(q.Curve) {
		return nil, bterrors.Newf(bterrors.Invariant, "Point.Add", "points belong to different curves")
	}
	c := p.Curve

	if p.Infinity {
		return q, nil
	}
	if q.Infinity {
		return p, nil
	}

	if p.X.Equal(q.X) {
		// Either the same y (need doubling or vertical tangent) or
		// additive inverses (x equal, y = -y => sum is O).
		sumY, _ := p.Y.Add(q.Y)
		if sumY.IsZero() {
			return c.Infinity(), nil
		}
		return p.double()
	}

	// s = (y2 - y1) / (x2 - x1)
	dy, _ := q.Y.Sub(p.Y)
	dx, _ := q.X.Sub(p.X)
	dxInv, err := dx.Inverse()
	if err != nil {
		return nil, err
	}
	s, _ := dy.Mul(dxInv)

	return p.addWithSlope(q, s)
}

func (p *Point) double() (*Point, error) {
	c := p.Curve
	if p.Y.IsZero() {
		return c.Infinity(), nil
	}

	// s = (3x^2 + a) / (2y)
	three := fieldmath.NewInt64(3, c.P)
	xSq, _ := p.X.Mul(p.X)
	num, _ := three.Mul(xSq)
	num, _ = num.Add(fieldmath.New(c.A, c.P))

	two := fieldmath.NewInt64(2, c.P)
	den, _ := two.Mul(p.Y)
	denInv, err := den.Inverse()
	if err != nil {
		return nil, err
	}
	s, _ := num.Mul(denInv)

	return p.addWithSlope(p, s)
}

// addWithSlope finishes chord/tangent addition given the slope s:
// x3 = s^2 - x1 - x2; y3 = s(x1 - x3) - y1.
func (p *Point) addWithSlope(q *Point, s *fieldmath.Element) (*Point, error) {
	sSq, _ := s.Mul(s)
	x3, _ := sSq.Sub(p.X)
	x3, _ = x3.Sub(q.X)

	xDiff, _ := p.X.Sub(x3)
	y3, _ := s.Mul(xDiff)
	y3, _ = y3.Sub(p.Y)

	return &Point{Curve: p.Curve, X: x3, Y: y3}, nil
}

// ScalarMul computes k*P via double-and-add over the bits of k, from
// the least significant bit up.
func (p *Point) ScalarMul(k *big.Int) (*Point, error) {
	if k.Sign() < 0 {
		return nil, bterrors.Newf(bterrors.Invariant, "Point.ScalarMul", "negative scalar")
	}
	result := p.Curve.Infinity()
	addend := p

	n := new(big.Int).Set(k)
	zero := big.NewInt(0)
	for n.Cmp(zero) > 0 {
		if n.Bit(0) == 1 {
			var err error
			result, err = result.Add(addend)
			if err != nil {
				return nil, err
			}
		}
		var err error
		addend, err = addend.Add(addend)
		if err != nil {
			return nil, err
		}
		n.Rsh(n, 1)
	}
	return result, nil
}

var (
	secp256k1Once sync.Once
	secp256k1     *Curve
)

// Secp256k1 returns the singleton curve used by Bitcoin: y^2 = x^3 + 7
// over p = 2^256 - 2^32 - 977, with the published generator and
// order, cofactor 1.
func Secp256k1() *Curve {
	secp256k1Once.Do(func() {
		p, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
		n, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
		gx, _ := new(big.Int).SetString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798", 16)
		gy, _ := new(big.Int).SetString("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8", 16)
		secp256k1 = &Curve{
			A:  big.NewInt(0),
			B:  big.NewInt(7),
			P:  p,
			N:  n,
			Gx: gx,
			Gy: gy,
		}
	})
	return secp256k1
}

// G returns the secp256k1 generator point.
func (c *Curve) G() *Point {
	pt, err := c.NewPoint(c.Gx, c.Gy)
	if err != nil {
		// The published generator always satisfies the curve
		// equation; a failure here means the constants above were
		// transcribed incorrectly.
		panic("curve: generator is not on the curve: " + err.Error())
	}
	return pt
}
