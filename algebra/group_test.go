// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGroupContractAcrossBackends exercises the Group/Field contract
// identically against both backends this library ships, so a bug specific
// to one curve implementation (rather than to the shared algebra logic
// already covered in p256_test.go) still surfaces here.
func TestGroupContractAcrossBackends(t *testing.T) {
	backends := map[string]func() Group{
		"P-256":    NewP256Group,
		"BN254-G1": NewBN254Group,
	}
	for name, newGroup := range backends {
		t.Run(name, func(t *testing.T) {
			g := newGroup()
			field := g.Field()
			require.Equal(t, name, g.Name())

			a, err := field.Random(rand.Reader)
			require.NoError(t, err)
			b, err := field.Random(rand.Reader)
			require.NoError(t, err)

			ga := g.Generator().Exp(a)
			gb := g.Generator().Exp(b)
			gsum := g.Generator().Exp(a.Add(b))
			require.True(t, ga.Mul(gb).Equal(gsum))

			decoded, err := g.FromBytes(ga.Bytes())
			require.NoError(t, err)
			require.True(t, ga.Equal(decoded))

			require.True(t, g.Generator().Exp(field.Zero()).Equal(g.Identity()))
		})
	}
}
