// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ineqproof implements the (in)equality proofs of spec §4.9
// (component C9): equality is a one-line specialization of the equality
// engine (C4); inequality uses a "knowledge of inverse" construction with
// two auxiliary commitments.
package ineqproof

import (
	"io"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/equality"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// EqualityProof proves that two statements' committed values (or a
// statement and a known constant) are equal.
type EqualityProof struct {
	Link *equality.Proof
}

func (p *EqualityProof) Clone() *EqualityProof {
	return &EqualityProof{Link: p.Link.Clone()}
}

// ProveEqual proves a and b's committed values are equal (spec §4.9: "two
// witnesses, map {(0,i0) ≡ (1,i1)}").
func ProveEqual(cp *params.CryptoParams, a, b *dlrep.Commitment, rand io.Reader) (*EqualityProof, error) {
	m := equality.NewMap()
	if err := m.Add("value", 0, 0); err != nil {
		return nil, err
	}
	if err := m.Add("value", 1, 0); err != nil {
		return nil, err
	}
	link, err := equality.Prove([]*dlrep.Witness{a.Witness, b.Witness}, m, cp, rand)
	if err != nil {
		return nil, err
	}
	return &EqualityProof{Link: link}, nil
}

// VerifyEqual verifies a ProveEqual proof against the two statements'
// closed (public) commitment values.
func VerifyEqual(cp *params.CryptoParams, aValue, bValue algebra.Element, proof *EqualityProof) error {
	g0, g1 := cp.G0(), cp.G1()
	aSt, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, aValue)
	if err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.VerifyEqual", err)
	}
	bSt, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, bValue)
	if err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.VerifyEqual", err)
	}
	m := equality.NewMap()
	_ = m.Add("value", 0, 0)
	_ = m.Add("value", 1, 0)
	if err := equality.Verify([]*dlrep.Statement{aSt, bSt}, m, cp, proof.Link); err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.VerifyEqual", err)
	}
	return nil
}

// ProveEqualConstant proves a's committed value equals the given public
// constant. It returns the proof together with the public value of a
// freshly-randomized commitment to that constant, which the verifier needs
// (constructed here since a constant's commitment still carries a secret
// random opening that must be communicated, even though its value is
// public).
func ProveEqualConstant(cp *params.CryptoParams, a *dlrep.Commitment, constant algebra.Scalar, rand io.Reader) (*EqualityProof, algebra.Element, error) {
	constCommit, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), constant, rand)
	if err != nil {
		return nil, nil, err
	}
	constSt, err := constCommit.ClosedStatement()
	if err != nil {
		return nil, nil, err
	}
	proof, err := ProveEqual(cp, a, constCommit, rand)
	if err != nil {
		return nil, nil, err
	}
	return proof, constSt.Value, nil
}

// VerifyEqualConstant verifies a ProveEqualConstant proof; constValue is
// the public commitment value returned alongside the proof by the prover.
func VerifyEqualConstant(cp *params.CryptoParams, aValue algebra.Element, constValue algebra.Element, proof *EqualityProof) error {
	return VerifyEqual(cp, aValue, constValue, proof)
}

// InequalityProof proves two committed values differ (or a committed value
// differs from a known constant), via the "knowledge of inverse" trick:
// the prover commits to w = (a−b)⁻¹ and, using (a−b)'s public group-element
// value as an auxiliary base, proves the same derived value V admits both
// a representation under that auxiliary base and under (g0,g1) with
// exponent 0 forced to the public constant 1 — which is only computable if
// w genuinely is the inverse of (a−b) (spec §4.9).
type InequalityProof struct {
	V    algebra.Element
	Link *equality.Proof
}

func (p *InequalityProof) Clone() *InequalityProof {
	return &InequalityProof{V: p.V, Link: p.Link.Clone()}
}

// proveInverse is the shared core: diffBase is the public group-element
// value of the (a−b) (or (a−constant)) difference, diffExp/diffOpening are
// its known exponent and opening.
func proveInverse(cp *params.CryptoParams, diffBase algebra.Element, diffExp, diffOpening algebra.Scalar, rand io.Reader) (*InequalityProof, error) {
	if diffExp.IsZero() {
		return nil, upzkperrors.InvalidWitness("ineqproof.proveInverse", nil)
	}
	field := cp.Field()
	w, ok := diffExp.Inv()
	if !ok {
		return nil, upzkperrors.InvalidWitness("ineqproof.proveInverse", nil)
	}
	g0, g1 := cp.G0(), cp.G1()

	r1, err := field.Random(rand)
	if err != nil {
		return nil, err
	}
	s := diffOpening.Mul(w).Add(r1)

	w1, err := dlrep.NewWitness(dlrep.PlainDL, cp.Group, []algebra.Element{diffBase, g1}, []algebra.Scalar{w, r1})
	if err != nil {
		return nil, err
	}
	w2, err := dlrep.NewWitness(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, []algebra.Scalar{field.One(), s})
	if err != nil {
		return nil, err
	}
	oneWitness, err := dlrep.NewWitness(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, []algebra.Scalar{field.One(), field.Zero()})
	if err != nil {
		return nil, err
	}

	v, err := w2.Value()
	if err != nil {
		return nil, err
	}

	m := equality.NewMap()
	if err := m.Add("one", 1, 0); err != nil {
		return nil, err
	}
	if err := m.Add("one", 2, 0); err != nil {
		return nil, err
	}

	link, err := equality.Prove([]*dlrep.Witness{w1, w2, oneWitness}, m, cp, rand)
	if err != nil {
		return nil, err
	}
	return &InequalityProof{V: v, Link: link}, nil
}

func verifyInverse(cp *params.CryptoParams, diffBase algebra.Element, proof *InequalityProof) error {
	g0, g1 := cp.G0(), cp.G1()
	st1, err := dlrep.NewStatement(dlrep.PlainDL, cp.Group, []algebra.Element{diffBase, g1}, proof.V)
	if err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.verifyInverse", err)
	}
	st2, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, proof.V)
	if err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.verifyInverse", err)
	}
	oneSt, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, g0)
	if err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.verifyInverse", err)
	}

	m := equality.NewMap()
	_ = m.Add("one", 1, 0)
	_ = m.Add("one", 2, 0)

	if err := equality.Verify([]*dlrep.Statement{st1, st2, oneSt}, m, cp, proof.Link); err != nil {
		return upzkperrors.InvalidArtifact("ineqproof.verifyInverse", err)
	}
	return nil
}

// ProveNotEqual proves a and b's committed values differ.
func ProveNotEqual(cp *params.CryptoParams, a, b *dlrep.Commitment, rand io.Reader) (*InequalityProof, error) {
	aSt, err := a.ClosedStatement()
	if err != nil {
		return nil, err
	}
	bSt, err := b.ClosedStatement()
	if err != nil {
		return nil, err
	}
	diffBase := aSt.Value.Mul(bSt.Value.Invert())
	diffExp := a.Value().Sub(b.Value())
	diffOpening := a.Opening().Sub(b.Opening())
	return proveInverse(cp, diffBase, diffExp, diffOpening, rand)
}

// VerifyNotEqual verifies a ProveNotEqual proof against the two statements'
// closed commitment values.
func VerifyNotEqual(cp *params.CryptoParams, aValue, bValue algebra.Element, proof *InequalityProof) error {
	diffBase := aValue.Mul(bValue.Invert())
	return verifyInverse(cp, diffBase, proof)
}

// ProveNotEqualConstant proves a's committed value differs from the given
// public constant.
func ProveNotEqualConstant(cp *params.CryptoParams, a *dlrep.Commitment, constant algebra.Scalar, rand io.Reader) (*InequalityProof, error) {
	aSt, err := a.ClosedStatement()
	if err != nil {
		return nil, err
	}
	diffBase := aSt.Value.Mul(cp.G0().Exp(constant.Neg()))
	diffExp := a.Value().Sub(constant)
	diffOpening := a.Opening()
	return proveInverse(cp, diffBase, diffExp, diffOpening, rand)
}

// VerifyNotEqualConstant verifies a ProveNotEqualConstant proof.
func VerifyNotEqualConstant(cp *params.CryptoParams, aValue algebra.Element, constant algebra.Scalar, proof *InequalityProof) error {
	diffBase := aValue.Mul(cp.G0().Exp(constant.Neg()))
	return verifyInverse(cp, diffBase, proof)
}
