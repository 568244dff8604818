// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dlrep implements the open (witness) and closed (statement)
// discrete-log representation objects of spec §4.3 (component C3) and the
// Pedersen commitment specialization of §4.5 (component C5).
//
// Per the design note in spec §9, statement variants are expressed as a
// single tagged-variant Statement/Witness type rather than as a family of
// interface implementations reached through runtime dispatch: Kind
// selects which of PlainDL, PedersenDL or TokenDL semantics the three
// contract operations (ComputeCommitment, ComputeResponse, Verify) use,
// each implemented inline via a switch rather than virtual-call
// indirection.
package dlrep

import (
	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Kind tags which variant of the DL-rep contract a Statement/Witness
// implements.
type Kind int

const (
	// PlainDL is `V = prod b_i^x_i` with no further structure.
	PlainDL Kind = iota
	// PedersenDL is the k=2 specialization `V = g0^x * g1^o` (component
	// C5); it uses exactly the PlainDL formulas but is tagged separately
	// so callers and proof packages can recognize "this is a commitment"
	// without inspecting base count.
	PedersenDL
	// TokenDL models a credential public key `h = g0^a * prod g_i^{x_i a}
	// ... ` (spec §4.10): base 0 is replaced by the public key value and
	// the exponent-0 term is negated in ComputeCommitment/Verify.
	TokenDL
)

// Witness is the open DL-representation: `{ bases b0...b_{k-1}, exponents
// x0...x_{k-1}, V = prod b_i^x_i }`.
type Witness struct {
	Kind      Kind
	Bases     []algebra.Element
	Exponents []algebra.Scalar
	Group     algebra.Group

	// PublicKey is only meaningful for Kind == TokenDL; it replaces
	// Bases[0] in ComputeCommitment/Verify (the bases slice itself still
	// carries the "real" base 0 for bookkeeping/serialization purposes).
	PublicKey algebra.Element
}

// NewWitness validates and constructs an open DL-representation,
// recomputing V = prod b_i^x_i from the given bases and exponents (spec
// §3: "value is recomputable from bases and exponents").
func NewWitness(kind Kind, group algebra.Group, bases []algebra.Element, exponents []algebra.Scalar) (*Witness, error) {
	if len(bases) == 0 {
		return nil, upzkperrors.Parameter("dlrep.NewWitness", "bases", nil)
	}
	if len(bases) != len(exponents) {
		return nil, upzkperrors.Parameter("dlrep.NewWitness", "bases/exponents length mismatch", nil)
	}
	return &Witness{Kind: kind, Bases: bases, Exponents: exponents, Group: group}, nil
}

// Value computes V = prod b_i^x_i (or, for TokenDL, the analogous
// public-key expression) from the witness's bases and exponents.
func (w *Witness) Value() (algebra.Element, error) {
	bases, exponents := w.effectiveBases(), w.effectiveExponents(w.Exponents)
	return w.Group.MultiExp(bases, exponents)
}

// effectiveBases returns the bases actually used in the commitment/value
// formula: identical to w.Bases except for TokenDL, where base 0 is
// replaced by PublicKey (spec §4.10).
func (w *Witness) effectiveBases() []algebra.Element {
	if w.Kind != TokenDL {
		return w.Bases
	}
	out := make([]algebra.Element, len(w.Bases))
	copy(out, w.Bases)
	out[0] = w.PublicKey
	return out
}

// effectiveExponents returns the exponents actually used in the
// commitment/value formula: identical to exps except for TokenDL, where
// exponent 0 is negated (spec §4.10: "negate the exponent-0 term").
func (w *Witness) effectiveExponents(exps []algebra.Scalar) []algebra.Scalar {
	if w.Kind != TokenDL {
		return exps
	}
	out := make([]algebra.Scalar, len(exps))
	copy(out, exps)
	out[0] = out[0].Neg()
	return out
}

// ComputeCommitment evaluates `prod b_i^r_i` (spec §4.3) using the
// supplied randomizers r, honoring the TokenDL base/exponent overrides.
func (w *Witness) ComputeCommitment(r []algebra.Scalar) (algebra.Element, error) {
	if len(r) != len(w.Bases) {
		return nil, upzkperrors.Parameter("Witness.ComputeCommitment", "randomizers length mismatch", nil)
	}
	return w.Group.MultiExp(w.effectiveBases(), w.effectiveExponents(r))
}

// ComputeResponse evaluates `r - c*x_i` (spec §4.3), identical across all
// Kinds: only ComputeCommitment/Verify vary by kind.
func (w *Witness) ComputeResponse(c, r algebra.Scalar, i int) algebra.Scalar {
	return r.Sub(c.Mul(w.Exponents[i]))
}

// Statement projects the witness into its closed form (exponents
// unknown), per spec §3: "Every witness has a statement projection."
func (w *Witness) Statement() (*Statement, error) {
	v, err := w.Value()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: w.Kind, Bases: w.Bases, Value: v, Group: w.Group, PublicKey: w.PublicKey}, nil
}

// Statement is the closed DL-representation: `{ bases b0...b_{k-1}, V }`,
// exponents unknown.
type Statement struct {
	Kind      Kind
	Bases     []algebra.Element
	Value     algebra.Element
	Group     algebra.Group
	PublicKey algebra.Element // only meaningful for Kind == TokenDL
}

// NewStatement validates and constructs a closed DL-representation
// directly (without going through a Witness), e.g. when reconstructing a
// statement from serialized/disclosed data.
func NewStatement(kind Kind, group algebra.Group, bases []algebra.Element, value algebra.Element) (*Statement, error) {
	if len(bases) == 0 {
		return nil, upzkperrors.Parameter("dlrep.NewStatement", "bases", nil)
	}
	return &Statement{Kind: kind, Bases: bases, Value: value, Group: group}, nil
}

// NumExponents returns k, the number of bases/exponents this statement's
// representation has.
func (s *Statement) NumExponents() int { return len(s.Bases) }

func (s *Statement) effectiveBases() []algebra.Element {
	if s.Kind != TokenDL {
		return s.Bases
	}
	out := make([]algebra.Element, len(s.Bases))
	copy(out, s.Bases)
	out[0] = s.PublicKey
	return out
}

func (s *Statement) effectiveExponents(resp []algebra.Scalar) []algebra.Scalar {
	if s.Kind != TokenDL {
		return resp
	}
	out := make([]algebra.Scalar, len(resp))
	copy(out, resp)
	out[0] = out[0].Neg()
	return out
}

// ComputeCommitment is the statement-side counterpart used by the
// equality engine when it needs to recompute b[j] during verification
// from a response vector rather than from fresh randomizers; it is the
// same MultiExp formula as the witness side.
func (s *Statement) ComputeCommitment(r []algebra.Scalar) (algebra.Element, error) {
	if len(r) != len(s.Bases) {
		return nil, upzkperrors.Parameter("Statement.ComputeCommitment", "randomizers length mismatch", nil)
	}
	return s.Group.MultiExp(s.effectiveBases(), s.effectiveExponents(r))
}

// Verify checks `commit ?= prod b_i^{resp_i} * V^c` (spec §4.3).
func (s *Statement) Verify(commit algebra.Element, c algebra.Scalar, resp []algebra.Scalar) bool {
	if len(resp) != len(s.Bases) {
		return false
	}
	rhsBases := append(append([]algebra.Element{}, s.effectiveBases()...), s.Value)
	rhsExps := append(append([]algebra.Scalar{}, s.effectiveExponents(resp)...), c)
	rhs, err := s.Group.MultiExp(rhsBases, rhsExps)
	if err != nil {
		return false
	}
	return commit.Equal(rhs)
}

// Equal reports whether two statements describe the same claim (same
// kind, bases and value) — used by the serialization round-trip testable
// property (spec §8.3).
func (s *Statement) Equal(o *Statement) bool {
	if s.Kind != o.Kind || len(s.Bases) != len(o.Bases) {
		return false
	}
	for i := range s.Bases {
		if !s.Bases[i].Equal(o.Bases[i]) {
			return false
		}
	}
	return s.Value.Equal(o.Value)
}

// Clone deep-copies the statement (spec's "Lifecycle summary": proof/
// statement objects are "pure values, freely cloneable").
func (s *Statement) Clone() *Statement {
	bases := make([]algebra.Element, len(s.Bases))
	copy(bases, s.Bases)
	return &Statement{Kind: s.Kind, Bases: bases, Value: s.Value, Group: s.Group, PublicKey: s.PublicKey}
}

// Wipe zeroes the witness's secret exponents, per spec §3's lifecycle
// note ("once a proof is emitted, witness exponents should be wiped") and
// §9's secret-wiping design note.
func (w *Witness) Wipe() {
	zero := w.Group.Field().Zero()
	for i := range w.Exponents {
		w.Exponents[i] = zero
	}
}
