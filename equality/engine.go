// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equality

import (
	"io"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/internal/common"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Proof is `π = (b[], respEq[], respNe[])` from spec §4.4: one commitment
// per statement, one response per equivalence class (in Map.ClassNames
// order), and one response per exponent outside every class (in ascending
// (statement, exponent) order).
type Proof struct {
	B      []algebra.Element
	RespEq []algebra.Scalar
	RespNe []algebra.Scalar
}

// Clone deep-copies the proof (spec: proof objects are "pure values,
// freely cloneable").
func (p *Proof) Clone() *Proof {
	return &Proof{
		B:      append([]algebra.Element{}, p.B...),
		RespEq: append([]algebra.Scalar{}, p.RespEq...),
		RespNe: append([]algebra.Scalar{}, p.RespNe...),
	}
}

// sessionState is the internal state-enum described generically in
// SPEC_FULL.md §7 item 5: every proof-specific builder object is
// single-use, preventing a randomizer set from being reused across two
// proofs (the same hazard the teacher's issuance-protocol prover guards
// against with its Initialized/Second/Tokens enum, spec §9, generalized
// here to the equality engine that every higher proof composes with).
type sessionState int

const (
	stateFresh sessionState = iota
	stateCommitted
	stateResponded
	stateSpent
)

// ProverSession drives the equality-of-exponents engine's three-move
// shape (commit, challenge, respond) while enforcing single use. Callers
// that only need the non-interactive (Fiat-Shamir-collapsed) proof should
// use Prove instead, which drives a ProverSession internally.
type ProverSession struct {
	witnesses []*dlrep.Witness
	statements []*dlrep.Statement
	m         *Map
	cp        *params.CryptoParams
	rand      io.Reader

	state sessionState

	classRandom map[string]algebra.Scalar
	freeRandom  map[ExponentRef]algebra.Scalar
	b           []algebra.Element
}

// NewProverSession validates inputs (in-range map entries, and that every
// equivalence class's witnesses actually agree on the exponent value, per
// spec §4.4's invariant) and returns a fresh session. Validation failures
// are ParameterError (bad indices) or InvalidWitnessError (inconsistent
// exponents); in both cases no commitment is produced, per spec's
// failure mode.
func NewProverSession(witnesses []*dlrep.Witness, m *Map, cp *params.CryptoParams, rand io.Reader) (*ProverSession, error) {
	if len(witnesses) == 0 {
		return nil, upzkperrors.Parameter("equality.NewProverSession", "witnesses", nil)
	}
	numExponents := make([]int, len(witnesses))
	statements := make([]*dlrep.Statement, len(witnesses))
	for j, w := range witnesses {
		numExponents[j] = len(w.Bases)
		s, err := w.Statement()
		if err != nil {
			return nil, upzkperrors.InvalidWitness("equality.NewProverSession", err)
		}
		statements[j] = s
	}
	if err := m.validateIndices(numExponents); err != nil {
		return nil, err
	}
	if err := checkClassConsistency(witnesses, m); err != nil {
		return nil, err
	}
	common.Logger.Tracef("equality: new prover session, %d witnesses, %d classes", len(witnesses), len(m.ClassNames()))
	return &ProverSession{
		witnesses:  witnesses,
		statements: statements,
		m:          m,
		cp:         cp,
		rand:       rand,
		state:      stateFresh,
	}, nil
}

// checkClassConsistency verifies that every member of a class actually
// shares the same exponent value among the supplied witnesses — spec
// §4.4's invariant: "A class whose members point at different witnesses'
// exponents will be proven equal only if the prover's witnesses actually
// have equal exponents there."
func checkClassConsistency(witnesses []*dlrep.Witness, m *Map) error {
	for _, name := range m.ClassNames() {
		refs := m.RefsInClass(name)
		if len(refs) == 0 {
			continue
		}
		first := witnesses[refs[0].Statement].Exponents[refs[0].Exponent]
		for _, r := range refs[1:] {
			v := witnesses[r.Statement].Exponents[r.Exponent]
			if !first.Equal(v) {
				return upzkperrors.InvalidWitness("equality.checkClassConsistency", nil)
			}
		}
	}
	return nil
}

// Commitments runs step 1-2 of the algorithm (spec §4.4): sample wEq/wNe
// and compute b[j] for every statement. It may only be called once per
// session.
func (s *ProverSession) Commitments() ([]algebra.Element, error) {
	if s.state != stateFresh {
		return nil, upzkperrors.Parameter("ProverSession.Commitments", "session already committed or spent", nil)
	}
	field := s.cp.Field()
	s.classRandom = make(map[string]algebra.Scalar)
	s.freeRandom = make(map[ExponentRef]algebra.Scalar)

	for _, name := range s.m.ClassNames() {
		w, err := field.Random(s.rand)
		if err != nil {
			return nil, err
		}
		s.classRandom[name] = w
	}

	b := make([]algebra.Element, len(s.witnesses))
	for j, w := range s.witnesses {
		r := make([]algebra.Scalar, len(w.Bases))
		for i := range r {
			if class, ok := s.m.ClassOf(j, i); ok {
				r[i] = s.classRandom[class]
			} else {
				ref := ExponentRef{Statement: j, Exponent: i}
				fr, err := field.Random(s.rand)
				if err != nil {
					return nil, err
				}
				s.freeRandom[ref] = fr
				r[i] = fr
			}
		}
		commit, err := w.ComputeCommitment(r)
		if err != nil {
			return nil, err
		}
		b[j] = commit
	}
	s.b = b
	s.state = stateCommitted
	return b, nil
}

// Respond runs step 4 of the algorithm given a challenge c (either
// self-derived via Prove, or supplied externally when this session's
// commitments are combined with other proof components into one shared
// Fiat-Shamir challenge, as the credential-binding layer does). It may
// only be called once, after Commitments, and consumes the session's
// randomizers: it drops the session's references to them, without zeroing
// the scalar values themselves.
func (s *ProverSession) Respond(c algebra.Scalar) (*Proof, error) {
	if s.state != stateCommitted {
		return nil, upzkperrors.Parameter("ProverSession.Respond", "session not committed, or already spent", nil)
	}

	classNames := s.m.ClassNames()
	respEq := make([]algebra.Scalar, len(classNames))
	for idx, name := range classNames {
		refs := s.m.RefsInClass(name)
		rep := refs[0]
		respEq[idx] = s.witnesses[rep.Statement].ComputeResponse(c, s.classRandom[name], rep.Exponent)
	}

	var respNe []algebra.Scalar
	for j, w := range s.witnesses {
		for i := range w.Bases {
			if _, ok := s.m.ClassOf(j, i); ok {
				continue
			}
			ref := ExponentRef{Statement: j, Exponent: i}
			respNe = append(respNe, w.ComputeResponse(c, s.freeRandom[ref], i))
		}
	}

	proof := &Proof{B: s.b, RespEq: respEq, RespNe: respNe}

	s.classRandom = nil
	s.freeRandom = nil
	s.state = stateSpent
	return proof, nil
}

// ParamsDigest absorbs the group name, scalar field order, and every
// statement's bases and value (in statement order) into t — the
// paramsDigest of spec §4.4 step 3.
func ParamsDigest(t *algebra.Transcript, cp *params.CryptoParams, statements []*dlrep.Statement) {
	t.WriteString(cp.Group.Name())
	t.WriteBytes(cp.Field().Order().Bytes())
	for _, s := range statements {
		for _, base := range s.Bases {
			t.WriteElement(base)
		}
		t.WriteElement(s.Value)
	}
}

// Challenge derives c = F.fromDigest(H(paramsDigest || mapDigest || b[]))
// per spec §4.4 step 3.
func Challenge(cp *params.CryptoParams, statements []*dlrep.Statement, m *Map, b []algebra.Element) (algebra.Scalar, error) {
	return algebra.Challenge(cp.Field(), cp.HashID, func(t *algebra.Transcript) {
		ParamsDigest(t, cp, statements)
		m.Digest(t)
		t.WriteInt(len(b))
		for _, e := range b {
			t.WriteElement(e)
		}
	})
}

// Prove runs the full non-interactive equality-of-exponents protocol
// (spec §4.4): it validates the witnesses against the map, samples
// commitments, self-derives the Fiat-Shamir challenge, and returns the
// completed responses. Witness exponents are wiped once the proof is
// produced (on both success and failure), per spec §3/§9.
func Prove(witnesses []*dlrep.Witness, m *Map, cp *params.CryptoParams, rand io.Reader) (*Proof, error) {
	defer func() {
		for _, w := range witnesses {
			w.Wipe()
		}
	}()
	session, err := NewProverSession(witnesses, m, cp, rand)
	if err != nil {
		return nil, err
	}

	b, err := session.Commitments()
	if err != nil {
		return nil, err
	}
	c, err := Challenge(cp, session.statements, m, b)
	if err != nil {
		return nil, err
	}
	proof, err := session.Respond(c)
	if err != nil {
		common.Logger.Tracef("equality: Prove failed: %v", err)
		return nil, err
	}
	common.Logger.Trace("equality: Prove succeeded")
	return proof, nil
}

// Verify recomputes the challenge from proof.B and re-derives each
// statement's response vector from the mapping (equal-class exponents
// share a response), then calls every statement's Verify. The proof is
// valid iff every statement verifies (spec §4.4).
func Verify(statements []*dlrep.Statement, m *Map, cp *params.CryptoParams, proof *Proof) error {
	numExponents := make([]int, len(statements))
	for j, s := range statements {
		numExponents[j] = len(s.Bases)
	}
	if err := m.validateIndices(numExponents); err != nil {
		return err
	}
	if len(proof.B) != len(statements) {
		return upzkperrors.InvalidArtifact("equality.Verify", nil)
	}
	classNames := m.ClassNames()
	if len(proof.RespEq) != len(classNames) {
		return upzkperrors.InvalidArtifact("equality.Verify", nil)
	}

	c, err := Challenge(cp, statements, m, proof.B)
	if err != nil {
		return upzkperrors.InvalidArtifact("equality.Verify", err)
	}

	classIndex := make(map[string]int, len(classNames))
	for idx, name := range classNames {
		classIndex[name] = idx
	}

	neIdx := 0
	for j, s := range statements {
		r := make([]algebra.Scalar, len(s.Bases))
		for i := range r {
			if class, ok := m.ClassOf(j, i); ok {
				r[i] = proof.RespEq[classIndex[class]]
			} else {
				if neIdx >= len(proof.RespNe) {
					return upzkperrors.InvalidArtifact("equality.Verify", nil)
				}
				r[i] = proof.RespNe[neIdx]
				neIdx++
			}
		}
		if !s.Verify(proof.B[j], c, r) {
			return upzkperrors.InvalidArtifact("equality.Verify", nil)
		}
	}
	if neIdx != len(proof.RespNe) {
		return upzkperrors.InvalidArtifact("equality.Verify", nil)
	}
	return nil
}

var _ common.Wiper = (*dlrep.Witness)(nil)
