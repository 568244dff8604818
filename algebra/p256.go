// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/privacybydesign/upzkp/upzkperrors"
)

// p256Group is the NIST P-256 backend named explicitly in the spec's seed
// scenario S1 ("Group = NIST P-256, generators as in the recommended
// parameter set"). No example repo in the retrieval pack implements NIST
// P-256 prime-order group arithmetic (gnark-crypto ships only pairing
// curves; circl/blst/uint256 don't cover it either), so this backend is
// built directly on the standard library — see DESIGN.md for the
// justification this repo's conventions require for any standard-library
// component.
type p256Group struct {
	curve elliptic.Curve
	field *p256Field
	gen   *p256Element
}

// NewP256Group constructs the NIST P-256 group, with the curve's standard
// base point as Generator().
func NewP256Group() Group {
	curve := elliptic.P256()
	f := &p256Field{order: curve.Params().N}
	g := &p256Group{curve: curve, field: f}
	gx, gy := curve.Params().Gx, curve.Params().Gy
	g.gen = &p256Element{curve: curve, x: gx, y: gy}
	return g
}

func (g *p256Group) Name() string    { return "P-256" }
func (g *p256Group) Identity() Element { return &p256Element{curve: g.curve, infinity: true} }
func (g *p256Group) Generator() Element { return g.gen }
func (g *p256Group) Field() Field    { return g.field }

func (g *p256Group) MultiExp(bases []Element, scalars []Scalar) (Element, error) {
	return GenericMultiExp(g.Identity(), bases, scalars)
}

// HashToGroup derives a generator via try-and-increment: hash seed+index+
// counter into a candidate x coordinate, solve the curve equation
// y^2 = x^3 - 3x + B for y via Tonelli-Shanks (big.Int.ModSqrt), and accept
// the first counter that lands on the curve. P-256's a=-3 short-Weierstrass
// form is taken directly from elliptic.CurveParams.
func (g *p256Group) HashToGroup(seed string, index int) (Element, error) {
	params := g.curve.Params()
	three := big.NewInt(3)
	for counter := 0; counter < 256; counter++ {
		t, err := NewTranscript("SHA-256")
		if err != nil {
			return nil, err
		}
		t.WriteString(seed).WriteInt(index).WriteInt(counter)
		x := new(big.Int).SetBytes(t.Sum())
		x.Mod(x, params.P)

		x2 := new(big.Int).Mul(x, x)
		x2.Mod(x2, params.P)
		rhs := new(big.Int).Mul(x2, x)
		rhs.Sub(rhs, new(big.Int).Mul(three, x))
		rhs.Add(rhs, params.B)
		rhs.Mod(rhs, params.P)

		y := new(big.Int).ModSqrt(rhs, params.P)
		if y == nil {
			continue
		}
		if !g.curve.IsOnCurve(x, y) {
			continue
		}
		return &p256Element{curve: g.curve, x: x, y: y}, nil
	}
	return nil, upzkperrors.Parameter("p256.HashToGroup", "seed/index exhausted 256 counters", nil)
}

// FromBytes decodes an element produced by p256Element.Bytes: a single
// 0x00 byte for the identity, or 0x04 || X || Y (uncompressed SEC1) for
// any other point. Points not on the curve are a ParameterError.
func (g *p256Group) FromBytes(b []byte) (Element, error) {
	if len(b) == 1 && b[0] == 0x00 {
		return g.Identity(), nil
	}
	x, y := elliptic.Unmarshal(g.curve, b)
	if x == nil {
		return nil, upzkperrors.Parameter("p256.FromBytes", "encoding", nil)
	}
	return &p256Element{curve: g.curve, x: x, y: y}, nil
}

type p256Element struct {
	curve    elliptic.Curve
	x, y     *big.Int
	infinity bool
}

func (e *p256Element) Mul(other Element) Element {
	o := other.(*p256Element)
	if e.infinity {
		return o
	}
	if o.infinity {
		return e
	}
	x, y := e.curve.Add(e.x, e.y, o.x, o.y)
	if x.Sign() == 0 && y.Sign() == 0 {
		return &p256Element{curve: e.curve, infinity: true}
	}
	return &p256Element{curve: e.curve, x: x, y: y}
}

func (e *p256Element) Invert() Element {
	if e.infinity {
		return e
	}
	ny := new(big.Int).Sub(e.curve.Params().P, e.y)
	return &p256Element{curve: e.curve, x: new(big.Int).Set(e.x), y: ny}
}

func (e *p256Element) Exp(s Scalar) Element {
	if e.infinity {
		return e
	}
	k := s.BigInt()
	if k.Sign() == 0 {
		return &p256Element{curve: e.curve, infinity: true}
	}
	kk := new(big.Int).Mod(k, e.curve.Params().N)
	x, y := e.curve.ScalarMult(e.x, e.y, kk.Bytes())
	if x.Sign() == 0 && y.Sign() == 0 {
		return &p256Element{curve: e.curve, infinity: true}
	}
	return &p256Element{curve: e.curve, x: x, y: y}
}

func (e *p256Element) Equal(other Element) bool {
	o := other.(*p256Element)
	if e.infinity || o.infinity {
		return e.infinity == o.infinity
	}
	return e.x.Cmp(o.x) == 0 && e.y.Cmp(o.y) == 0
}

func (e *p256Element) IsIdentity() bool { return e.infinity }

func (e *p256Element) Bytes() []byte {
	if e.infinity {
		return []byte{0x00}
	}
	return elliptic.Marshal(e.curve, e.x, e.y)
}

type p256Field struct {
	order *big.Int
}

func (f *p256Field) Name() string      { return "P-256-scalar" }
func (f *p256Field) Order() *big.Int   { return new(big.Int).Set(f.order) }
func (f *p256Field) Zero() Scalar      { return &p256Scalar{v: big.NewInt(0), order: f.order} }
func (f *p256Field) One() Scalar       { return &p256Scalar{v: big.NewInt(1), order: f.order} }

func (f *p256Field) Random(r io.Reader) (Scalar, error) {
	if r == nil {
		r = rand.Reader
	}
	v, err := rand.Int(r, f.order)
	if err != nil {
		return nil, err
	}
	return &p256Scalar{v: v, order: f.order}, nil
}

func (f *p256Field) RandomNonzero(r io.Reader) (Scalar, error) {
	for {
		s, err := f.Random(r)
		if err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
}

// FromDigest reads the digest as a big-endian unsigned integer reduced
// mod q, as spec §4.1 mandates.
func (f *p256Field) FromDigest(digest []byte) Scalar {
	v := new(big.Int).SetBytes(digest)
	v.Mod(v, f.order)
	return &p256Scalar{v: v, order: f.order}
}

func (f *p256Field) FromBytes(b []byte) (Scalar, error) {
	v := new(big.Int).SetBytes(b)
	if v.Cmp(f.order) >= 0 {
		return nil, upzkperrors.Parameter("p256Field.FromBytes", "scalar out of range", nil)
	}
	return &p256Scalar{v: v, order: f.order}, nil
}

type p256Scalar struct {
	v     *big.Int
	order *big.Int
}

func (s *p256Scalar) reduce(v *big.Int) *p256Scalar {
	v.Mod(v, s.order)
	return &p256Scalar{v: v, order: s.order}
}

func (s *p256Scalar) Add(o Scalar) Scalar {
	return s.reduce(new(big.Int).Add(s.v, o.(*p256Scalar).v))
}

func (s *p256Scalar) Sub(o Scalar) Scalar {
	return s.reduce(new(big.Int).Sub(s.v, o.(*p256Scalar).v))
}

func (s *p256Scalar) Neg() Scalar {
	return s.reduce(new(big.Int).Neg(s.v))
}

func (s *p256Scalar) Mul(o Scalar) Scalar {
	return s.reduce(new(big.Int).Mul(s.v, o.(*p256Scalar).v))
}

func (s *p256Scalar) Inv() (Scalar, bool) {
	if s.IsZero() {
		return nil, false
	}
	inv := new(big.Int).ModInverse(s.v, s.order)
	if inv == nil {
		return nil, false
	}
	return &p256Scalar{v: inv, order: s.order}, true
}

func (s *p256Scalar) IsZero() bool { return s.v.Sign() == 0 }

func (s *p256Scalar) Equal(o Scalar) bool {
	return s.v.Cmp(o.(*p256Scalar).v) == 0
}

func (s *p256Scalar) Bytes() []byte {
	b := make([]byte, 32)
	s.v.FillBytes(b)
	return b
}

func (s *p256Scalar) BigInt() *big.Int { return new(big.Int).Set(s.v) }
