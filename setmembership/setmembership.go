// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package setmembership implements the set-membership proof of spec
// §4.6 (component C6): a non-interactive OR of k single-element equality
// proofs, showing a committed value lies in a public finite scalar set.
//
// Structurally grounded (secondarily) on parsdao-pars/ring's ring
// signature construction, which uses the identical "simulate every branch
// but one, then solve for the real branch's challenge from the total"
// shape; primarily grounded on spec §4.6 itself, which fully specifies
// the construction.
package setmembership

import (
	"io"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Proof is `(a[k], c[k-1], r[k])` from spec §4.6.
type Proof struct {
	A []algebra.Element
	C []algebra.Scalar
	R []algebra.Scalar
}

// Clone deep-copies the proof.
func (p *Proof) Clone() *Proof {
	return &Proof{
		A: append([]algebra.Element{}, p.A...),
		C: append([]algebra.Scalar{}, p.C...),
		R: append([]algebra.Scalar{}, p.R...),
	}
}

// indexOf returns the index of v in set, or -1.
func indexOf(set []algebra.Scalar, v algebra.Scalar) int {
	for i, s := range set {
		if s.Equal(v) {
			return i
		}
	}
	return -1
}

// challengeTotal computes c_total = H(group || g || h || S || X || a[]),
// reduced into the field via FromDigest.
func challengeTotal(cp *params.CryptoParams, g, h algebra.Element, set []algebra.Scalar, X algebra.Element, a []algebra.Element) (algebra.Scalar, error) {
	return algebra.Challenge(cp.Field(), cp.HashID, func(t *algebra.Transcript) {
		t.WriteString(cp.Group.Name())
		t.WriteElement(g)
		t.WriteElement(h)
		t.WriteInt(len(set))
		for _, s := range set {
			t.WriteScalar(s)
		}
		t.WriteElement(X)
		t.WriteInt(len(a))
		for _, e := range a {
			t.WriteElement(e)
		}
	})
}

// Prove constructs a set-membership proof that commitment opens to a
// value in set, using g = cp.G0(), h = cp.G1() as the two Pedersen bases.
// An empty set is a ParameterError; a committed value absent from the set
// is an InvalidWitnessError raised before any commitment is produced
// (spec §4.6 edge cases).
func Prove(cp *params.CryptoParams, set []algebra.Scalar, commitment *dlrep.Commitment, rand io.Reader) (*Proof, error) {
	k := len(set)
	if k == 0 {
		return nil, upzkperrors.Parameter("setmembership.Prove", "set", nil)
	}
	field := cp.Field()
	g, h := cp.G0(), cp.G1()
	value, opening := commitment.Value(), commitment.Opening()

	real := indexOf(set, value)
	if real < 0 {
		return nil, upzkperrors.InvalidWitness("setmembership.Prove", nil)
	}

	statement, err := commitment.ClosedStatement()
	if err != nil {
		return nil, err
	}
	X := statement.Value

	a := make([]algebra.Element, k)
	c := make([]algebra.Scalar, k)
	r := make([]algebra.Scalar, k)

	for j := 0; j < k; j++ {
		if j == real {
			continue
		}
		cj, err := field.Random(rand)
		if err != nil {
			return nil, err
		}
		rj, err := field.Random(rand)
		if err != nil {
			return nil, err
		}
		c[j] = cj
		r[j] = rj
		// a_j = h^{r_j} * g^{s_j * c_j} * X^{-c_j}
		sjcj := set[j].Mul(cj)
		negcj := cj.Neg()
		aj, err := cp.Group.MultiExp(
			[]algebra.Element{h, g, X},
			[]algebra.Scalar{rj, sjcj, negcj},
		)
		if err != nil {
			return nil, err
		}
		a[j] = aj
	}

	w, err := field.Random(rand)
	if err != nil {
		return nil, err
	}
	a[real] = h.Exp(w)

	cTotal, err := challengeTotal(cp, g, h, set, X, a)
	if err != nil {
		return nil, err
	}

	sumOthers := field.Zero()
	for j := 0; j < k; j++ {
		if j != real {
			sumOthers = sumOthers.Add(c[j])
		}
	}
	cReal := cTotal.Sub(sumOthers)
	c[real] = cReal
	// r_real = c_real * opening + w
	r[real] = cReal.Mul(opening).Add(w)

	// serialize: drop position k-1 (recoverable as cTotal - sum(rest)).
	return &Proof{A: a, C: c[:k-1], R: r}, nil
}

// Verify checks a set-membership proof against closed commitment X.
func Verify(cp *params.CryptoParams, set []algebra.Scalar, X algebra.Element, proof *Proof) error {
	k := len(set)
	if k == 0 {
		return upzkperrors.Parameter("setmembership.Verify", "set", nil)
	}
	if len(proof.A) != k || len(proof.C) != k-1 || len(proof.R) != k {
		return upzkperrors.InvalidArtifact("setmembership.Verify", nil)
	}
	field := cp.Field()
	g, h := cp.G0(), cp.G1()

	cTotal, err := challengeTotal(cp, g, h, set, X, proof.A)
	if err != nil {
		return upzkperrors.InvalidArtifact("setmembership.Verify", err)
	}

	c := make([]algebra.Scalar, k)
	sum := field.Zero()
	for j := 0; j < k-1; j++ {
		c[j] = proof.C[j]
		sum = sum.Add(c[j])
	}
	c[k-1] = cTotal.Sub(sum)

	for j := 0; j < k; j++ {
		// check h^{r_j} = X^{c_j} * g^{-s_j*c_j} * a_j
		lhs := h.Exp(proof.R[j])
		negsjcj := set[j].Mul(c[j]).Neg()
		rhs, err := cp.Group.MultiExp(
			[]algebra.Element{X, g, proof.A[j]},
			[]algebra.Scalar{c[j], negsjcj, field.One()},
		)
		if err != nil {
			return upzkperrors.InvalidArtifact("setmembership.Verify", err)
		}
		if !lhs.Equal(rhs) {
			return upzkperrors.InvalidArtifact("setmembership.Verify", nil)
		}
	}
	return nil
}
