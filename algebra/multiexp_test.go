// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiExpMatchesSequentialExp(t *testing.T) {
	g := NewP256Group()
	field := g.Field()

	g1 := g.Generator()
	g2 := g.Generator().Exp(field.FromDigest([]byte("second base")))
	g3 := g.Generator().Exp(field.FromDigest([]byte("third base")))

	a, err := field.Random(rand.Reader)
	require.NoError(t, err)
	b, err := field.Random(rand.Reader)
	require.NoError(t, err)
	c, err := field.Random(rand.Reader)
	require.NoError(t, err)

	want := g1.Exp(a).Mul(g2.Exp(b)).Mul(g3.Exp(c))

	got, err := g.MultiExp([]Element{g1, g2, g3}, []Scalar{a, b, c})
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestMultiExpEmptyReturnsIdentity(t *testing.T) {
	g := NewP256Group()
	got, err := g.MultiExp(nil, nil)
	require.NoError(t, err)
	require.True(t, got.IsIdentity())
}

func TestMultiExpLengthMismatchIsError(t *testing.T) {
	g := NewP256Group()
	_, err := g.MultiExp([]Element{g.Generator()}, nil)
	require.Error(t, err)
}
