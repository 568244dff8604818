// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package algebra is the algebraic foundation layer (spec §4.1, component
// C1): prime-order group arithmetic, scalar field arithmetic,
// multi-exponentiation, and Fiat-Shamir challenge derivation. Every proof
// package above it is written against the Scalar/Element/Group/Field
// interfaces here, never against a concrete curve, so that a caller can
// swap in any backend that satisfies the contract (see p256.go and
// bn254.go for the two backends this library ships).
//
// This generalizes the teacher's (gabi's) internal/common helpers, which
// hard-coded RSA-group modular exponentiation, into a pluggable interface
// — gabi's proof code only ever needs mul/invert/exp/hash, which is
// exactly the capability set captured here.
package algebra

import (
	"io"
	"math/big"

	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Scalar is an element of a group's scalar field F_q.
type Scalar interface {
	Add(Scalar) Scalar
	Neg() Scalar
	Mul(Scalar) Scalar
	Sub(Scalar) Scalar
	Inv() (Scalar, bool)
	Bytes() []byte
	IsZero() bool
	Equal(Scalar) bool
	BigInt() *big.Int
}

// Element is a member of the prime-order group G. The group operation is
// written multiplicatively throughout this library (matching the spec's
// notation `V = prod b_i^x_i`), regardless of whether the concrete
// backend is additive (elliptic curve points) under the hood.
type Element interface {
	Mul(Element) Element
	Invert() Element
	Exp(Scalar) Element
	Equal(Element) bool
	Bytes() []byte
	IsIdentity() bool
}

// Field is a prime-order scalar field F_q.
type Field interface {
	Name() string
	Order() *big.Int
	Zero() Scalar
	One() Scalar
	Random(rand io.Reader) (Scalar, error)
	RandomNonzero(rand io.Reader) (Scalar, error)
	FromDigest(digest []byte) Scalar
	FromBytes(b []byte) (Scalar, error)
}

// Group is a cyclic group of prime order whose order equals the
// associated Field's order.
type Group interface {
	Name() string
	Identity() Element
	Generator() Element
	Field() Field
	// MultiExp evaluates prod bases[i]^scalars[i] in one call, using an
	// efficient multi-exponentiation algorithm (Straus' method, see
	// multiexp.go) rather than naive repeated Exp+Mul. An empty input
	// returns the identity (spec §4.1).
	MultiExp(bases []Element, scalars []Scalar) (Element, error)
	FromBytes(b []byte) (Element, error)
	// HashToGroup derives a nothing-up-my-sleeve generator independent of
	// Generator(): a try-and-increment hash-to-curve search over seed and
	// index, never a public power of an existing generator (spec §4.2 —
	// deriving g_i as g_0 raised to a publicly computable scalar would
	// expose log_{g0}(g_i) and break Pedersen-commitment binding). Fails
	// only if 256 consecutive counters miss the curve, negligible for a
	// cryptographically-sized prime field.
	HashToGroup(seed string, index int) (Element, error)
}

// Exp is a convenience single-base exponentiation, equivalent to
// MultiExp([]Element{base}, []Scalar{scalar}) but avoiding slice
// allocation in hot paths.
func Exp(g Group, base Element, scalar Scalar) Element {
	return base.Exp(scalar)
}

// errParameter is a small local alias to keep call sites short.
func errParameter(op, field string) error {
	return upzkperrors.Parameter(op, field, nil)
}
