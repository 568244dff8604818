// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitproof implements the bit-decomposition proof of spec §4.7
// (component C7): a commitment C opens to v, and v = Σ 2^i·b_i for
// committed bits B_i, each b_i ∈ {0,1}.
package bitproof

import (
	"io"
	"math/big"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/equality"
	"github.com/privacybydesign/upzkp/internal/common"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/setmembership"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Proof is the bit-decomposition proof: the public bit commitments, one
// set-membership proof per bit (S={0,1}), and a single equality-engine
// proof tying C's committed value to the committed value of
// prod B_i^{2^i} (spec §4.7).
type Proof struct {
	BitCommitments []algebra.Element
	BitProofs      []*setmembership.Proof
	LinkProof      *equality.Proof
}

// Clone deep-copies the proof.
func (p *Proof) Clone() *Proof {
	out := &Proof{
		BitCommitments: append([]algebra.Element{}, p.BitCommitments...),
		BitProofs:      make([]*setmembership.Proof, len(p.BitProofs)),
	}
	for i, bp := range p.BitProofs {
		out.BitProofs[i] = bp.Clone()
	}
	out.LinkProof = p.LinkProof.Clone()
	return out
}

func bitSet(field algebra.Field) []algebra.Scalar {
	return []algebra.Scalar{field.Zero(), field.One()}
}

// powerOfTwo returns the field scalar 2^i.
func powerOfTwo(field algebra.Field, i int) algebra.Scalar {
	v := new(big.Int).Lsh(big.NewInt(1), uint(i))
	return field.FromDigest(v.Bytes())
}

// Prove builds a bit-decomposition proof for commitment C over numBits
// bits. If C's committed value is negative or >= 2^numBits, this is an
// InvalidWitnessError (the decomposition invariant does not hold).
func Prove(cp *params.CryptoParams, C *dlrep.Commitment, numBits int, rand io.Reader) (*Proof, error) {
	proof, _, err := ProveWithCommitments(cp, C, numBits, rand)
	return proof, err
}

// ProveWithCommitments behaves like Prove but also returns the per-bit
// opening commitments, for composition by higher proofs (rangeproof) that
// need to algebraically combine bit commitments rather than only verify
// their decomposition.
func ProveWithCommitments(cp *params.CryptoParams, C *dlrep.Commitment, numBits int, rand io.Reader) (*Proof, []*dlrep.Commitment, error) {
	if numBits <= 0 {
		return nil, nil, upzkperrors.Parameter("bitproof.Prove", "numBits", nil)
	}
	field := cp.Field()
	v := C.Value().BigInt()
	limit := new(big.Int).Lsh(big.NewInt(1), uint(numBits))
	if v.Sign() < 0 || v.Cmp(limit) >= 0 {
		return nil, nil, upzkperrors.InvalidWitness("bitproof.Prove", nil)
	}

	set := bitSet(field)
	bitCommitments := make([]*dlrep.Commitment, numBits)
	bitClosed := make([]algebra.Element, numBits)
	bitProofs := make([]*setmembership.Proof, numBits)

	common.DefaultFollower.StepStart("bit-decomposition", numBits)
	defer common.DefaultFollower.StepDone()

	for i := 0; i < numBits; i++ {
		bit := new(big.Int).And(new(big.Int).Rsh(v, uint(i)), big.NewInt(1))
		bitScalar := field.Zero()
		if bit.Sign() != 0 {
			bitScalar = field.One()
		}
		bc, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), bitScalar, rand)
		if err != nil {
			return nil, nil, err
		}
		bitCommitments[i] = bc
		st, err := bc.ClosedStatement()
		if err != nil {
			return nil, nil, err
		}
		bitClosed[i] = st.Value

		bp, err := setmembership.Prove(cp, set, bc, rand)
		if err != nil {
			return nil, nil, err
		}
		bitProofs[i] = bp
		common.DefaultFollower.Tick()
	}

	// D = prod B_i^{2^i}
	var D *dlrep.Commitment
	for i := 0; i < numBits; i++ {
		scaled, err := bitCommitments[i].Exp(powerOfTwo(field, i))
		if err != nil {
			return nil, nil, err
		}
		if D == nil {
			D = scaled
		} else {
			D, err = D.Mul(scaled)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	m := equality.NewMap()
	if err := m.Add("bitsum", 0, 0); err != nil {
		return nil, nil, err
	}
	if err := m.Add("bitsum", 1, 0); err != nil {
		return nil, nil, err
	}
	linkProof, err := equality.Prove([]*dlrep.Witness{C.Witness, D.Witness}, m, cp, rand)
	if err != nil {
		return nil, nil, err
	}

	return &Proof{BitCommitments: bitClosed, BitProofs: bitProofs, LinkProof: linkProof}, bitCommitments, nil
}

// Verify checks a bit-decomposition proof against closed commitment
// value X (the value of C).
func Verify(cp *params.CryptoParams, X algebra.Element, proof *Proof) error {
	numBits := len(proof.BitCommitments)
	if numBits == 0 || len(proof.BitProofs) != numBits {
		return upzkperrors.InvalidArtifact("bitproof.Verify", nil)
	}
	field := cp.Field()
	set := bitSet(field)

	for i := 0; i < numBits; i++ {
		if err := setmembership.Verify(cp, set, proof.BitCommitments[i], proof.BitProofs[i]); err != nil {
			return upzkperrors.InvalidArtifact("bitproof.Verify", err)
		}
	}

	// Recompute D = prod B_i^{2^i} from the (public) bit commitments.
	bases := make([]algebra.Element, numBits)
	scalars := make([]algebra.Scalar, numBits)
	for i := 0; i < numBits; i++ {
		bases[i] = proof.BitCommitments[i]
		scalars[i] = powerOfTwo(field, i)
	}
	D, err := cp.Group.MultiExp(bases, scalars)
	if err != nil {
		return upzkperrors.InvalidArtifact("bitproof.Verify", err)
	}

	cStatement, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{cp.G0(), cp.G1()}, X)
	if err != nil {
		return upzkperrors.InvalidArtifact("bitproof.Verify", err)
	}
	dStatement, err := dlrep.NewStatement(dlrep.PedersenDL, cp.Group, []algebra.Element{cp.G0(), cp.G1()}, D)
	if err != nil {
		return upzkperrors.InvalidArtifact("bitproof.Verify", err)
	}

	m := equality.NewMap()
	_ = m.Add("bitsum", 0, 0)
	_ = m.Add("bitsum", 1, 0)
	if err := equality.Verify([]*dlrep.Statement{cStatement, dStatement}, m, cp, proof.LinkProof); err != nil {
		return upzkperrors.InvalidArtifact("bitproof.Verify", err)
	}
	return nil
}
