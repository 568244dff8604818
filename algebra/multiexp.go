// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

// GenericMultiExp evaluates prod bases[i]^scalars[i] using Straus' /
// Shamir's-trick simultaneous double-and-add: scan the scalars' bits from
// most to least significant, squaring an accumulator once per bit and
// multiplying in every base whose scalar has that bit set. This computes
// all exponentiations in roughly one pass over the shared bit length
// instead of doing len(bases) independent square-and-multiply
// exponentiations, which is the "efficient multi-exponentiation algorithm"
// spec §4.1 requires of every Group backend.
//
// Backends (p256.go, bn254.go) call this with their own Element/identity
// values so the algorithm is written once against the interfaces in
// algebra.go rather than duplicated per curve.
func GenericMultiExp(identity Element, bases []Element, scalars []Scalar) (Element, error) {
	if len(bases) != len(scalars) {
		return nil, errParameter("MultiExp", "bases/scalars length mismatch")
	}
	if len(bases) == 0 {
		return identity, nil
	}

	maxBits := 0
	for _, s := range scalars {
		if bl := s.BigInt().BitLen(); bl > maxBits {
			maxBits = bl
		}
	}
	if maxBits == 0 {
		return identity, nil
	}

	acc := identity
	for bit := maxBits - 1; bit >= 0; bit-- {
		acc = acc.Mul(acc)
		for i, s := range scalars {
			if s.BigInt().Bit(bit) == 1 {
				acc = acc.Mul(bases[i])
			}
		}
	}
	return acc, nil
}
