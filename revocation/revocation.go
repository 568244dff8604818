// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package revocation implements the designated-verifier dynamic
// accumulator of spec §4.11 (component C11): the authority-held
// accumulator state machine, the user-side and authority-side witness
// constructions, and the non-revocation Sigma proof binding a disclosed
// attribute commitment to a witness for that same attribute.
package revocation

import (
	"io"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/equality"
	"github.com/privacybydesign/upzkp/internal/common"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// RAParams is the revocation authority's public parameter bundle `(g, g1,
// gt, K=g^δ, hashId)` from spec §4.11. It is deliberately distinct from
// params.CryptoParams (the disclosure-proof generator table): the
// accumulator is its own collaborator with its own generators, sharing
// only the underlying algebra.Group.
type RAParams struct {
	Group  algebra.Group
	G      algebra.Element
	G1     algebra.Element
	Gt     algebra.Element
	K      algebra.Element
	HashID string
}

// NewRAParams derives nothing-up-my-sleeve generators g, g1, gt
// independently via the group's own hash-to-curve search (DeriveGenerators;
// the same mechanism params.NewCryptoParams uses for its own generator
// table) and samples a fresh authority secret δ, returning both the public
// RAParams and the Accumulator that embeds it. δ never leaves the
// Accumulator: RAParams alone (e.g. as handed to a prover) carries only
// K = g^δ.
func NewRAParams(group algebra.Group, seed, hashID string, rand io.Reader) (*Accumulator, error) {
	if hashID == "" {
		return nil, upzkperrors.Parameter("revocation.NewRAParams", "hashID", nil)
	}
	field := group.Field()
	delta, err := field.RandomNonzero(rand)
	if err != nil {
		return nil, err
	}
	g, g1, gt, err := DeriveGenerators(group, seed)
	if err != nil {
		return nil, err
	}
	ra := &RAParams{
		Group:  group,
		G:      g,
		G1:     g1,
		Gt:     gt,
		HashID: hashID,
	}
	ra.K = ra.G.Exp(delta)
	return &Accumulator{RA: ra, Delta: delta, V: ra.Gt, Revoked: nil}, nil
}

// DeriveGenerators derives the ambient (g, g1, gt) triple for a given seed,
// independently for each index via the group's own hash-to-curve search
// (algebra.Group.HashToGroup) — never as a power of one another, which
// would expose a discrete-log relation between them and break the binding
// of every Pedersen commitment built on g1 or Cd (spec §4.2, §4.11). Unlike
// K and V, these generators are not part of the per-accumulator persisted
// state of spec §6 ("(groupName, K, hashId, V, δ) serialized") — they are a
// fixed, public system parameter shared by every party, exactly like
// params.CryptoParams's own generator table, so a deserializer
// reconstructing an RAParams from persisted state needs this to re-derive
// them rather than read them off the wire. The seed is tagged with
// "revocation" so a caller sharing one seed between params.NewCryptoParams
// and this package still gets an independent generator table for each.
func DeriveGenerators(group algebra.Group, seed string) (g, g1, gt algebra.Element, err error) {
	tagged := seed + "|revocation"
	if g, err = group.HashToGroup(tagged, 0); err != nil {
		return nil, nil, nil, err
	}
	if g1, err = group.HashToGroup(tagged, 1); err != nil {
		return nil, nil, nil, err
	}
	if gt, err = group.HashToGroup(tagged, 2); err != nil {
		return nil, nil, nil, err
	}
	return g, g1, gt, nil
}

// Accumulator is the authority-held state machine of spec §4.11: *fresh*
// when Revoked is empty and V = gt, *populated* otherwise. Only the
// authority constructs or mutates one of these; provers and ordinary
// verifiers only ever see RA.G/G1/Gt/K/HashID and the public V.
type Accumulator struct {
	RA      *RAParams
	Delta   algebra.Scalar // δ — secret, authority-only.
	V       algebra.Element
	Revoked []algebra.Scalar
}

// indexOf reports whether v is already present in Revoked.
func (a *Accumulator) indexOf(v algebra.Scalar) int {
	for i, r := range a.Revoked {
		if r.Equal(v) {
			return i
		}
	}
	return -1
}

// UpdateAccumulator transitions the accumulator by adding addSet to and
// removing removeSet from the revoked set (spec §4.11). V is defined as
// `gt^(prod_{x in revoked}(δ+x))`; since addSet/removeSet contribute
// further (δ+x) factors to that same exponent, applying the change means
// raising the current V to that product (for adds) or to its inverse
// (for removes) — spec's prose ("multiplies/divides V by prod(δ+x)")
// describes the exponent arithmetic, not a literal group multiplication
// by a bare scalar, which the defining formula for V does not admit;
// this is recorded as an Open Question resolution in DESIGN.md. Any
// x = −δ is rejected (that factor would be zero and unrecoverable).
func (a *Accumulator) UpdateAccumulator(addSet, removeSet []algebra.Scalar) error {
	field := a.RA.Group.Field()
	negDelta := a.Delta.Neg()
	for _, x := range addSet {
		if x.Equal(negDelta) {
			return upzkperrors.Parameter("Accumulator.UpdateAccumulator", "addSet", nil)
		}
	}
	for _, x := range removeSet {
		if x.Equal(negDelta) {
			return upzkperrors.Parameter("Accumulator.UpdateAccumulator", "removeSet", nil)
		}
	}

	if len(addSet) > 0 {
		prod := field.One()
		for _, x := range addSet {
			prod = prod.Mul(a.Delta.Add(x))
		}
		a.V = a.V.Exp(prod)
		for _, x := range addSet {
			if a.indexOf(x) < 0 {
				a.Revoked = append(a.Revoked, x)
			}
		}
		common.Logger.Tracef("revocation: accumulator updated, %d added, %d revoked total", len(addSet), len(a.Revoked))
	}
	if len(removeSet) > 0 {
		prod := field.One()
		for _, x := range removeSet {
			prod = prod.Mul(a.Delta.Add(x))
		}
		inv, ok := prod.Inv()
		if !ok {
			return upzkperrors.Parameter("Accumulator.UpdateAccumulator", "removeSet", nil)
		}
		a.V = a.V.Exp(inv)
		kept := a.Revoked[:0:0]
		for _, r := range a.Revoked {
			drop := false
			for _, x := range removeSet {
				if r.Equal(x) {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, r)
			}
		}
		a.Revoked = kept
		common.Logger.Tracef("revocation: accumulator updated, %d removed, %d revoked total", len(removeSet), len(a.Revoked))
	}
	return nil
}

// Witness is the revocation witness `{d, W, Q}` of spec §4.11.
type Witness struct {
	D algebra.Scalar
	W algebra.Element
	Q algebra.Element
}

// Clone deep-copies the witness.
func (w *Witness) Clone() *Witness {
	return &Witness{D: w.D, W: w.W, Q: w.Q}
}

// computeQ evaluates Q = V · W^{−xid} · gt^{−d}, shared by both witness
// construction paths.
func computeQ(ra *RAParams, V algebra.Element, W algebra.Element, d, xid algebra.Scalar) (algebra.Element, error) {
	return ra.Group.MultiExp(
		[]algebra.Element{V, W, ra.Gt},
		[]algebra.Scalar{ra.Group.Field().One(), xid.Neg(), d.Neg()},
	)
}

// ComputeRevocationWitness is the authority-side witness construction of
// spec §4.11: given the accumulator's full revoked set and a target xid
// not among it, it computes `d = prod_{x in R}(x − xid)`, `W =
// gt^{(π−d)/(δ+xid)}` (π = prod_{x in R}(δ+x)), and `Q =
// V·W^{−xid}·gt^{−d}`. It is a method on Accumulator, not a free
// function, since δ is authority-only state that must never be handed to
// a prover alongside RAParams. xid ∈ R is an InvalidWitnessError (the
// precondition spec states explicitly); this also guards against
// emitting a witness with d = 0, which a later non-revocation proof must
// also reject.
func (a *Accumulator) ComputeRevocationWitness(xid algebra.Scalar) (*Witness, error) {
	field := a.RA.Group.Field()
	for _, x := range a.Revoked {
		if x.Equal(xid) {
			return nil, upzkperrors.InvalidWitness("Accumulator.ComputeRevocationWitness", nil)
		}
	}

	common.DefaultFollower.StepStart("revocation-witness-recomputation", len(a.Revoked))
	defer common.DefaultFollower.StepDone()

	d := field.One()
	pi := field.One()
	for _, x := range a.Revoked {
		d = d.Mul(x.Sub(xid))
		pi = pi.Mul(a.Delta.Add(x))
		common.DefaultFollower.Tick()
	}

	denom := a.Delta.Add(xid)
	denomInv, ok := denom.Inv()
	if !ok {
		return nil, upzkperrors.InvalidWitness("Accumulator.ComputeRevocationWitness", nil)
	}
	wExp := pi.Sub(d).Mul(denomInv)
	W := a.RA.Gt.Exp(wExp)

	Q, err := computeQ(a.RA, a.V, W, d, xid)
	if err != nil {
		return nil, err
	}
	return &Witness{D: d, W: W, Q: Q}, nil
}

// UpdateWitnessAdd is the user-side incremental witness update of spec
// §4.11 for a single added element y: `d' = d·(y−xid)`, `W' =
// V·W^{y−xid}` where V is the accumulator value from *before* this
// addition (verified algebraically: expanding both sides of `W' =
// V_old·W^{y−xid}` against the closed-form d/W formulas confirms V here
// must be the pre-update value, not the post-update one — unlike the
// removal case below, where spec explicitly names the post-update V').
func UpdateWitnessAdd(ra *RAParams, oldV algebra.Element, old *Witness, xid, y algebra.Scalar) (*Witness, error) {
	diff := y.Sub(xid)
	newD := old.D.Mul(diff)
	newW, err := ra.Group.MultiExp([]algebra.Element{oldV, old.W}, []algebra.Scalar{ra.Group.Field().One(), diff})
	if err != nil {
		return nil, err
	}
	return &Witness{D: newD, W: newW}, nil
}

// UpdateWitnessRemove is the user-side incremental witness update of spec
// §4.11 for a single removed element y: `d' = d/(y−xid)`, `W' =
// (V'^{-1}·W)^{1/(y−xid)}`, where V' is the accumulator value *after* this
// removal (spec's own wording: "V' is the post-update accumulator"). This
// is UpdateWitnessAdd's relation `W = V'·W'^{y−xid}` solved for W', so the
// result matches ComputeRevocationWitness's closed form for the new set.
// y = xid (diff zero) is an InvalidWitnessError: xid cannot be removed
// from the revoked set by a holder who was never in it.
func UpdateWitnessRemove(ra *RAParams, newV algebra.Element, old *Witness, xid, y algebra.Scalar) (*Witness, error) {
	diff := y.Sub(xid)
	inv, ok := diff.Inv()
	if !ok {
		return nil, upzkperrors.InvalidWitness("revocation.UpdateWitnessRemove", nil)
	}
	newD := old.D.Mul(inv)
	newW, err := ra.Group.MultiExp([]algebra.Element{newV, old.W}, []algebra.Scalar{inv.Neg(), inv})
	if err != nil {
		return nil, err
	}
	return &Witness{D: newD, W: newW}, nil
}

// FinalizeWitness computes Q for a witness whose D/W were just produced
// by UpdateWitnessAdd/UpdateWitnessRemove (those two functions leave Q
// unset, since Q depends on the accumulator value current at the moment
// the witness is about to be used, not at each intermediate step).
func FinalizeWitness(ra *RAParams, V algebra.Element, w *Witness, xid algebra.Scalar) (*Witness, error) {
	Q, err := computeQ(ra, V, w.W, w.D, xid)
	if err != nil {
		return nil, err
	}
	return &Witness{D: w.D, W: w.W, Q: Q}, nil
}

// NonRevocationProof is the non-revocation Sigma proof of spec §4.11: the
// multiplicatively-blinded pair (X, Y), the helper element H, and the
// opening commitment Cd, all bound together by a single equality.Proof
// that ties the disclosed attribute's xid and the witness's d across the
// four underlying dlrep statements (see DESIGN.md for the full
// construction and its soundness argument).
type NonRevocationProof struct {
	Link *equality.Proof
	X    algebra.Element
	Y    algebra.Element
	H    algebra.Element
	Cd   algebra.Element
}

// Clone deep-copies the proof.
func (p *NonRevocationProof) Clone() *NonRevocationProof {
	return &NonRevocationProof{Link: p.Link.Clone(), X: p.X, Y: p.Y, H: p.H, Cd: p.Cd}
}

// nonRevocationMap builds the equality map shared by ProveNonRevocation and
// Verify: class "xid" ties credCommitment's committed value xid (statement
// 0, exponent 0) to the blinded relation's exponent-0 term (statement 2);
// class "d" ties Cd's committed value d' (statement 1, exponent 0) to the
// blinded relation's exponent-1 term (statement 2). The refs are fixed constants, so Add can never fail here.
func nonRevocationMap() *equality.Map {
	m := equality.NewMap()
	_ = m.Add("xid", 0, 0)
	_ = m.Add("xid", 2, 0)
	_ = m.Add("d", 1, 0)
	_ = m.Add("d", 2, 1)
	return m
}

// ProveNonRevocation builds a non-revocation proof binding the disclosed
// attribute commitment credCommitment = g0^xid·g1^oID (from credbind's
// AttributeCommitment, using cp's own Pedersen bases, which may differ
// from RA's generators) to a revocation witness (d, W, Q) for that same
// xid, without revealing xid, oID, d, α, t2, W or Q.
//
// Construction (spec §4.11, restructured per the design note recorded in
// DESIGN.md): rather than additively blinding W and Q by a random exponent
// t1 — which leaves the resulting Sigma sub-proof unable to bind t1 into
// the X/Y relation without an exponent-in-exponent cross term — this
// blinds multiplicatively by a random nonzero α: X = W^α, Y = Q^α, and a
// new helper H = accV^α. Writing d' = α·d, the accumulator identity
// V = Q·W^{xid}·gt^{d} (computeQ, raised to the α power) gives
// H = Y·X^{xid}·gt^{d'}, i.e. H·Y^{-1} = X^{xid}·gt^{d'}: a PlainDL
// statement on bases (X, gt) whose exponents are exactly (xid, d'). A
// second statement, Cd = gt^{d'}·g1^{t2}, is the same PedersenDL shape
// credbind commitments use. The equality engine (component C4) ties xid
// across this statement and credCommitment's own opening, and ties d'
// across this statement and Cd — so accepting the combined proof implies
// the existence of W'' = X^{1/α} and d = d'/α with accV = W''^{xid}·
// W''^{δ}·gt^{d} for the authority's δ (checked separately via Y = X^δ,
// see VerifyDesignated) and with that same xid opening credCommitment.
func ProveNonRevocation(cp *params.CryptoParams, ra *RAParams, accV algebra.Element, credCommitment algebra.Element, xid, oID algebra.Scalar, w *Witness, rand io.Reader) (*NonRevocationProof, error) {
	field := cp.Field()

	expectedQ, err := computeQ(ra, accV, w.W, w.D, xid)
	if err != nil {
		return nil, err
	}
	if w.D.IsZero() || !w.Q.Equal(expectedQ) {
		return nil, upzkperrors.InvalidWitness("revocation.ProveNonRevocation", nil)
	}

	alpha, err := field.RandomNonzero(rand)
	if err != nil {
		return nil, err
	}
	t2, err := field.Random(rand)
	if err != nil {
		return nil, err
	}

	X := w.W.Exp(alpha)
	Y := w.Q.Exp(alpha)
	H := accV.Exp(alpha)
	dPrime := alpha.Mul(w.D)

	Cd, err := ra.Group.MultiExp([]algebra.Element{ra.Gt, ra.G1}, []algebra.Scalar{dPrime, t2})
	if err != nil {
		return nil, err
	}

	g0, g1 := cp.G0(), cp.G1()
	credWitness, err := dlrep.NewWitness(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, []algebra.Scalar{xid, oID})
	if err != nil {
		return nil, err
	}
	credValue, err := credWitness.Value()
	if err != nil {
		return nil, err
	}
	if !credValue.Equal(credCommitment) {
		return nil, upzkperrors.InvalidWitness("revocation.ProveNonRevocation", nil)
	}

	cdWitness, err := dlrep.NewWitness(dlrep.PedersenDL, ra.Group, []algebra.Element{ra.Gt, ra.G1}, []algebra.Scalar{dPrime, t2})
	if err != nil {
		return nil, err
	}
	linkWitness, err := dlrep.NewWitness(dlrep.PlainDL, ra.Group, []algebra.Element{X, ra.Gt}, []algebra.Scalar{xid, dPrime})
	if err != nil {
		return nil, err
	}
	hWitness, err := dlrep.NewWitness(dlrep.PlainDL, ra.Group, []algebra.Element{accV}, []algebra.Scalar{alpha})
	if err != nil {
		return nil, err
	}

	link, err := equality.Prove([]*dlrep.Witness{credWitness, cdWitness, linkWitness, hWitness}, nonRevocationMap(), cp, rand)
	if err != nil {
		return nil, err
	}

	return &NonRevocationProof{Link: link, X: X, Y: Y, H: H, Cd: Cd}, nil
}

// Verify checks the Sigma sub-proof of a non-revocation proof: that the
// equality.Proof genuinely ties credCommitment's xid into the (X, H, Y)
// relation via Cd's d'. accV must be the accumulator value current as of
// when the proof was produced. It does not and cannot check actual
// revocation status on its own — see VerifyDesignated.
func Verify(cp *params.CryptoParams, ra *RAParams, accV algebra.Element, credCommitment algebra.Element, proof *NonRevocationProof) error {
	g0, g1 := cp.G0(), cp.G1()

	credSt, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{g0, g1}, credCommitment)
	if err != nil {
		return upzkperrors.InvalidArtifact("revocation.Verify", err)
	}
	cdSt, err := dlrep.NewStatement(dlrep.PedersenDL, ra.Group, []algebra.Element{ra.Gt, ra.G1}, proof.Cd)
	if err != nil {
		return upzkperrors.InvalidArtifact("revocation.Verify", err)
	}
	hy := proof.H.Mul(proof.Y.Invert())
	linkSt, err := dlrep.NewStatement(dlrep.PlainDL, ra.Group, []algebra.Element{proof.X, ra.Gt}, hy)
	if err != nil {
		return upzkperrors.InvalidArtifact("revocation.Verify", err)
	}
	hSt, err := dlrep.NewStatement(dlrep.PlainDL, ra.Group, []algebra.Element{accV}, proof.H)
	if err != nil {
		return upzkperrors.InvalidArtifact("revocation.Verify", err)
	}

	if err := equality.Verify([]*dlrep.Statement{credSt, cdSt, linkSt, hSt}, nonRevocationMap(), cp, proof.Link); err != nil {
		return upzkperrors.InvalidArtifact("revocation.Verify", err)
	}
	return nil
}

// VerifyDesignated performs Verify's Sigma-proof check and additionally
// checks Y = X^δ (spec §4.11: "only the authority possessing δ can do
// this — the designated verifier property"), the check that actually
// certifies the witness embedded in X/Y/H corresponds to a non-revoked
// element for the δ this authority holds (ProveNonRevocation's doc
// comment explains how the Sigma sub-proof and this check combine to
// carry the full soundness argument).
func VerifyDesignated(cp *params.CryptoParams, acc *Accumulator, credCommitment algebra.Element, proof *NonRevocationProof) error {
	if err := Verify(cp, acc.RA, acc.V, credCommitment, proof); err != nil {
		return err
	}
	if !proof.Y.Equal(proof.X.Exp(acc.Delta)) {
		return upzkperrors.InvalidArtifact("revocation.VerifyDesignated", nil)
	}
	return nil
}
