// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/privacybydesign/upzkp/upzkperrors"
)

// bn254Group is the pairing-friendly BN254 backend, offered as a second
// Group implementation alongside the stdlib P-256 one. Grounded directly
// on parsdao-pars/zk/pedersen.go, which builds Pedersen commitments on
// bn254.G1Affine with gnark-crypto's ecc/bn254 and ecc/bn254/fr packages
// (ScalarMultiplication, Add, Neg, IsOnCurve/IsInfinity, fr.Element
// Bytes/SetRandom) — reused here as the concrete Element/Scalar plumbing
// rather than the EVM-precompile wrapper that file builds around it.
type bn254Group struct {
	field *bn254Field
	gen   *bn254Element
}

// NewBN254Group constructs the BN254 G1 group with the curve's standard
// base point as Generator().
func NewBN254Group() Group {
	_, _, g1, _ := bn254.Generators()
	return &bn254Group{
		field: &bn254Field{},
		gen:   &bn254Element{p: g1},
	}
}

func (g *bn254Group) Name() string      { return "BN254-G1" }
func (g *bn254Group) Identity() Element { return &bn254Element{} }
func (g *bn254Group) Generator() Element { return g.gen }
func (g *bn254Group) Field() Field      { return g.field }

func (g *bn254Group) MultiExp(bases []Element, scalars []Scalar) (Element, error) {
	return GenericMultiExp(g.Identity(), bases, scalars)
}

func (g *bn254Group) FromBytes(b []byte) (Element, error) {
	var p bn254.G1Affine
	if len(b) == 1 && b[0] == 0x00 {
		return &bn254Element{}, nil
	}
	if _, err := p.SetBytes(b); err != nil {
		return nil, upzkperrors.Parameter("bn254.FromBytes", "encoding", err)
	}
	return &bn254Element{p: p}, nil
}

type bn254Element struct {
	p bn254.G1Affine
}

func (e *bn254Element) Mul(other Element) Element {
	o := other.(*bn254Element)
	var r bn254.G1Affine
	r.Add(&e.p, &o.p)
	return &bn254Element{p: r}
}

func (e *bn254Element) Invert() Element {
	var r bn254.G1Affine
	r.Neg(&e.p)
	return &bn254Element{p: r}
}

func (e *bn254Element) Exp(s Scalar) Element {
	var r bn254.G1Affine
	r.ScalarMultiplication(&e.p, s.BigInt())
	return &bn254Element{p: r}
}

func (e *bn254Element) Equal(other Element) bool {
	o := other.(*bn254Element)
	return e.p.Equal(&o.p)
}

func (e *bn254Element) IsIdentity() bool { return e.p.IsInfinity() }

func (e *bn254Element) Bytes() []byte {
	b := e.p.Bytes()
	return b[:]
}

// HashToGroup derives a generator via try-and-increment, the same approach
// parsdao-pars/zk/pedersen.go uses for its blinding generator H: hash
// seed+index+counter into a candidate x coordinate on y^2 = x^3 + 3 and
// accept the first counter landing on the curve. Unlike a public power of
// Generator(), this leaves no discoverable discrete-log relation between
// generators (spec §4.2).
func (g *bn254Group) HashToGroup(seed string, index int) (Element, error) {
	for counter := 0; counter < 256; counter++ {
		t, err := NewTranscript("SHA-256")
		if err != nil {
			return nil, err
		}
		t.WriteString(seed).WriteInt(index).WriteInt(counter)
		digest := t.Sum()

		var x fp.Element
		x.SetBytes(digest)

		var x2, x3, rhs fp.Element
		x2.Square(&x)
		x3.Mul(&x2, &x)
		var three fp.Element
		three.SetInt64(3)
		rhs.Add(&x3, &three)

		var y fp.Element
		if y.Sqrt(&rhs) == nil {
			continue
		}
		var point bn254.G1Affine
		point.X = x
		point.Y = y
		if point.IsOnCurve() && !point.IsInfinity() {
			return &bn254Element{p: point}, nil
		}
	}
	return nil, upzkperrors.Parameter("bn254.HashToGroup", "seed/index exhausted 256 counters", nil)
}

type bn254Field struct{}

func (f *bn254Field) Name() string    { return "BN254-Fr" }
func (f *bn254Field) Order() *big.Int { return fr.Modulus() }
func (f *bn254Field) Zero() Scalar    { return &bn254Scalar{} }
func (f *bn254Field) One() Scalar {
	var e fr.Element
	e.SetOne()
	return &bn254Scalar{v: e}
}

func (f *bn254Field) Random(r io.Reader) (Scalar, error) {
	if r == nil {
		r = rand.Reader
	}
	raw := make([]byte, 64)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(raw)
	v.Mod(v, fr.Modulus())
	var e fr.Element
	e.SetBigInt(v)
	return &bn254Scalar{v: e}, nil
}

func (f *bn254Field) RandomNonzero(r io.Reader) (Scalar, error) {
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

func (f *bn254Field) FromDigest(digest []byte) Scalar {
	v := new(big.Int).SetBytes(digest)
	v.Mod(v, fr.Modulus())
	var e fr.Element
	e.SetBigInt(v)
	return &bn254Scalar{v: e}
}

func (f *bn254Field) FromBytes(b []byte) (Scalar, error) {
	v := new(big.Int).SetBytes(b)
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, upzkperrors.Parameter("bn254Field.FromBytes", "scalar out of range", nil)
	}
	var e fr.Element
	e.SetBigInt(v)
	return &bn254Scalar{v: e}, nil
}

type bn254Scalar struct {
	v fr.Element
}

func (s *bn254Scalar) Add(o Scalar) Scalar {
	var r fr.Element
	r.Add(&s.v, &o.(*bn254Scalar).v)
	return &bn254Scalar{v: r}
}

func (s *bn254Scalar) Sub(o Scalar) Scalar {
	var r fr.Element
	r.Sub(&s.v, &o.(*bn254Scalar).v)
	return &bn254Scalar{v: r}
}

func (s *bn254Scalar) Neg() Scalar {
	var r fr.Element
	r.Neg(&s.v)
	return &bn254Scalar{v: r}
}

func (s *bn254Scalar) Mul(o Scalar) Scalar {
	var r fr.Element
	r.Mul(&s.v, &o.(*bn254Scalar).v)
	return &bn254Scalar{v: r}
}

func (s *bn254Scalar) Inv() (Scalar, bool) {
	if s.IsZero() {
		return nil, false
	}
	var r fr.Element
	r.Inverse(&s.v)
	return &bn254Scalar{v: r}, true
}

func (s *bn254Scalar) IsZero() bool { return s.v.IsZero() }

func (s *bn254Scalar) Equal(o Scalar) bool {
	return s.v.Equal(&o.(*bn254Scalar).v)
}

func (s *bn254Scalar) Bytes() []byte {
	b := s.v.Bytes()
	return b[:]
}

func (s *bn254Scalar) BigInt() *big.Int {
	var v big.Int
	s.v.BigInt(&v)
	return &v
}
