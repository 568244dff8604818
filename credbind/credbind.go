// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package credbind implements the credential-binding adapters of spec
// §4.10 (component C10): turning an external credential presentation's
// per-attribute commitments into dlrep witnesses this library's proof
// packages can compose with, and a TokenDL statement modelling a
// credential public key.
package credbind

import (
	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// PresentationSnapshot is the shape this core consumes from the external
// credential-presentation collaborator (spec §1: "the core consumes from
// these collaborators only... (b) a presentation's per-attribute
// commitment values and openings"). It is deliberately a plain data
// struct, not an interface, so the credential layer's own types need no
// knowledge of this library: a caller builds one of these directly from
// whatever it already has in hand.
type PresentationSnapshot struct {
	// CommitmentValues holds C̃_i, the public Pedersen commitment value
	// for attribute index i, for every attribute the presentation
	// exposes a commitment for.
	CommitmentValues map[int]algebra.Element
	// Openings holds õ_i, the private opening randomizer backing
	// CommitmentValues[i].
	Openings map[int]algebra.Scalar
	// Values holds x_i, the canonical scalar encoding of attribute i
	// (spec §4.10: "provided by the external credential layer").
	Values map[int]algebra.Scalar
}

// AttributeCommitment reconstructs the open Pedersen commitment
// `(g0, g1, x_k, õ_k)` for attribute index k from a presentation snapshot
// (spec §4.10). A missing opening or value at k is a ParameterError — this
// is a caller-usage mistake, not a soundness failure, so it is reported
// eagerly rather than folded into InvalidWitnessError. A commitment value
// at k is not required; when one is present it is compared against the
// reconstructed commitment, and a mismatch is also a ParameterError.
func AttributeCommitment(cp *params.CryptoParams, snap *PresentationSnapshot, k int) (*dlrep.Commitment, error) {
	x, ok := snap.Values[k]
	if !ok {
		return nil, upzkperrors.Parameter("credbind.AttributeCommitment", "Values", nil)
	}
	o, ok := snap.Openings[k]
	if !ok {
		return nil, upzkperrors.Parameter("credbind.AttributeCommitment", "Openings", nil)
	}
	w, err := dlrep.NewWitness(dlrep.PedersenDL, cp.Group, []algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{x, o})
	if err != nil {
		return nil, err
	}
	c := &dlrep.Commitment{Witness: w}
	if declared, ok := snap.CommitmentValues[k]; ok {
		st, err := c.ClosedStatement()
		if err != nil {
			return nil, err
		}
		if !st.Value.Equal(declared) {
			return nil, upzkperrors.Parameter("credbind.AttributeCommitment", "CommitmentValues mismatch", nil)
		}
	}
	return c, nil
}

// AttributeStatement builds the closed counterpart of AttributeCommitment
// directly from a presentation's disclosed (public) commitment value,
// without requiring the opening — used when a verifier, rather than the
// prover, needs the statement for composition into an equality map.
func AttributeStatement(cp *params.CryptoParams, snap *PresentationSnapshot, k int) (*dlrep.Statement, error) {
	v, ok := snap.CommitmentValues[k]
	if !ok {
		return nil, upzkperrors.Parameter("credbind.AttributeStatement", "CommitmentValues", nil)
	}
	return dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{cp.G0(), cp.G1()}, v)
}

// TokenWitness builds the open TokenDL witness proving knowledge of α =
// privateKey⁻¹ underlying a credential token value `h = issuerKey^α ·
// prod g_i^{x_i·α} · g_t^{x_t·α}` (spec §4.10/§4.3), where issuerKey is an
// external distinguished base (e.g. the issuer's public key element from
// the credential-issuance collaborator, structurally independent of this
// library's own generator table), x is the attribute-value vector
// (attrBases[i] paired with attrValues[i] in order), and tokenBase/
// tokenValue is the final distinguished term g_t/x_t (e.g. the
// credential's scope-exclusive pseudonym base in a U-Prove-style token).
// privateKey.IsZero() is a ParameterError: α would not be invertible.
//
// TokenDL's contract (dlrep.go) substitutes PublicKey for base 0 and
// negates exponent 0 on both the commitment and verification sides: base
// 0 of the stored Bases slice keeps cp.G0() only for bookkeeping/
// serialization (it is never evaluated), while PublicKey carries the
// actual issuerKey base the formula above is written against, and
// exponent 0 is stored as -α rather than α. Working this through:
// effectiveBases/effectiveExponents turn the verification equation into
// `h = issuerKey^{-(-α)} · prod g_i^{x_i·α} · g_t^{x_t·α}`, i.e. exactly
// h for whatever base issuerKey actually is. Everything after index 0 is
// unaffected by the TokenDL overrides and carries its natural exponent
// x_i·α.
func TokenWitness(cp *params.CryptoParams, issuerKey algebra.Element, privateKey algebra.Scalar, attrBases []algebra.Element, attrValues []algebra.Scalar, tokenBase algebra.Element, tokenValue algebra.Scalar) (*dlrep.Witness, error) {
	if len(attrBases) != len(attrValues) {
		return nil, upzkperrors.Parameter("credbind.TokenWitness", "attrBases/attrValues length mismatch", nil)
	}
	if privateKey.IsZero() {
		return nil, upzkperrors.Parameter("credbind.TokenWitness", "privateKey", nil)
	}
	alpha, ok := privateKey.Inv()
	if !ok {
		return nil, upzkperrors.Parameter("credbind.TokenWitness", "privateKey", nil)
	}

	bases := make([]algebra.Element, 0, len(attrBases)+2)
	hExponents := make([]algebra.Scalar, 0, len(attrBases)+2)

	bases = append(bases, issuerKey)
	hExponents = append(hExponents, alpha)
	for i, base := range attrBases {
		bases = append(bases, base)
		hExponents = append(hExponents, attrValues[i].Mul(alpha))
	}
	bases = append(bases, tokenBase)
	hExponents = append(hExponents, tokenValue.Mul(alpha))

	if _, err := cp.Group.MultiExp(bases, hExponents); err != nil {
		return nil, err
	}

	storedExponents := append([]algebra.Scalar{}, hExponents...)
	storedExponents[0] = alpha.Neg()

	storedBases := append([]algebra.Element{}, bases...)
	storedBases[0] = cp.G0()

	w, err := dlrep.NewWitness(dlrep.TokenDL, cp.Group, storedBases, storedExponents)
	if err != nil {
		return nil, err
	}
	w.PublicKey = issuerKey
	return w, nil
}

// TokenStatement builds the closed TokenDL counterpart given the already-
// known token value h and the same issuerKey base TokenWitness used.
func TokenStatement(cp *params.CryptoParams, issuerKey algebra.Element, publicKeyValue algebra.Element, attrBases []algebra.Element, tokenBase algebra.Element) (*dlrep.Statement, error) {
	bases := make([]algebra.Element, 0, len(attrBases)+2)
	bases = append(bases, cp.G0())
	bases = append(bases, attrBases...)
	bases = append(bases, tokenBase)
	st, err := dlrep.NewStatement(dlrep.TokenDL, cp.Group, bases, publicKeyValue)
	if err != nil {
		return nil, err
	}
	st.PublicKey = issuerKey
	return st, nil
}
