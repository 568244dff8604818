// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlrep

import (
	"io"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Commitment is the two-base PedersenDL specialization of Witness:
// bases[0] = g0, bases[1] = g1, exponents[0] = the committed value,
// exponents[1] = the opening (spec §4.5/§3).
type Commitment struct {
	*Witness
}

// CommitValue produces `(g0^x * g1^o, x, o)` with a fresh random opening
// o, per spec §4.5.
func CommitValue(group algebra.Group, g0, g1 algebra.Element, x algebra.Scalar, rand io.Reader) (*Commitment, error) {
	o, err := group.Field().Random(rand)
	if err != nil {
		return nil, err
	}
	w, err := NewWitness(PedersenDL, group, []algebra.Element{g0, g1}, []algebra.Scalar{x, o})
	if err != nil {
		return nil, err
	}
	return &Commitment{Witness: w}, nil
}

// Value returns the committed value (exponent 0).
func (c *Commitment) Value() algebra.Scalar { return c.Exponents[0] }

// Opening returns the opening randomizer (exponent 1).
func (c *Commitment) Opening() algebra.Scalar { return c.Exponents[1] }

// Exp raises both exponents of the commitment by s: (x,o) -> (x*s, o*s),
// used by the bit-decomposition composition (spec §4.7: "exponentiating
// each B_i by 2^i").
func (c *Commitment) Exp(s algebra.Scalar) (*Commitment, error) {
	w, err := NewWitness(PedersenDL, c.Group, c.Bases, []algebra.Scalar{
		c.Exponents[0].Mul(s),
		c.Exponents[1].Mul(s),
	})
	if err != nil {
		return nil, err
	}
	return &Commitment{Witness: w}, nil
}

// Mul performs "strict multiplication": sums the exponents of two
// commitments that share exactly the same bases, per spec §4.5. Bases
// that don't match exactly (same group elements, same order) is a
// ParameterError.
func (c *Commitment) Mul(o *Commitment) (*Commitment, error) {
	if len(c.Bases) != len(o.Bases) {
		return nil, upzkperrors.Parameter("Commitment.Mul", "bases mismatch", nil)
	}
	for i := range c.Bases {
		if !c.Bases[i].Equal(o.Bases[i]) {
			return nil, upzkperrors.Parameter("Commitment.Mul", "bases mismatch", nil)
		}
	}
	w, err := NewWitness(PedersenDL, c.Group, c.Bases, []algebra.Scalar{
		c.Exponents[0].Add(o.Exponents[0]),
		c.Exponents[1].Add(o.Exponents[1]),
	})
	if err != nil {
		return nil, err
	}
	return &Commitment{Witness: w}, nil
}

// ClosedStatement projects the commitment to its closed (statement) form.
func (c *Commitment) ClosedStatement() (*Statement, error) {
	return c.Witness.Statement()
}
