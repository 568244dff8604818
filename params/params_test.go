// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/upzkp/algebra"
)

func TestNewRejectsTooFewGenerators(t *testing.T) {
	g := algebra.NewP256Group()
	_, err := New(g, []algebra.Element{g.Generator()}, "SHA-256")
	require.Error(t, err)
}

func TestNewRejectsEmptyHashID(t *testing.T) {
	g := algebra.NewP256Group()
	_, err := New(g, []algebra.Element{g.Generator(), g.Generator()}, "")
	require.Error(t, err)
}

func TestAttributeBaseIndexing(t *testing.T) {
	cfg, err := NewSystemConfig("P-256", "SHA-256", 3)
	require.NoError(t, err)
	cp, err := NewCryptoParams(cfg, "test-seed")
	require.NoError(t, err)

	require.Equal(t, 3, cp.NumAttributeBases())

	b1, err := cp.AttributeBase(1)
	require.NoError(t, err)
	require.True(t, b1.Equal(cp.Generators[2]))

	_, err = cp.AttributeBase(0)
	require.Error(t, err)

	_, err = cp.AttributeBase(10)
	require.Error(t, err)
}

func TestNewCryptoParamsIsDeterministicInSeed(t *testing.T) {
	cfg, err := NewSystemConfig("P-256", "SHA-256", 2)
	require.NoError(t, err)

	a, err := NewCryptoParams(cfg, "same-seed")
	require.NoError(t, err)
	b, err := NewCryptoParams(cfg, "same-seed")
	require.NoError(t, err)
	c, err := NewCryptoParams(cfg, "other-seed")
	require.NoError(t, err)

	for i := range a.Generators {
		require.True(t, a.Generators[i].Equal(b.Generators[i]))
	}
	require.False(t, a.Generators[2].Equal(c.Generators[2]))
}

func TestGroupByIDRejectsUnknown(t *testing.T) {
	_, err := GroupByID("RSA-2048")
	require.Error(t, err)
}

func TestNewSystemConfigValidation(t *testing.T) {
	_, err := NewSystemConfig("", "SHA-256", 1)
	require.Error(t, err)
	_, err = NewSystemConfig("P-256", "", 1)
	require.Error(t, err)
	_, err = NewSystemConfig("P-256", "SHA-256", 0)
	require.Error(t, err)

	cfg, err := NewSystemConfig("P-256", "SHA-256", 1)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxRangeBits, cfg.MaxRangeBits)
}

type fakeIssuerParams struct {
	group      algebra.Group
	generators []algebra.Element
	hashID     string
}

func (f *fakeIssuerParams) Group() algebra.Group          { return f.group }
func (f *fakeIssuerParams) Generators() []algebra.Element { return f.generators }
func (f *fakeIssuerParams) HashID() string                { return f.hashID }

func TestFromIssuerParamsCopiesGeneratorTable(t *testing.T) {
	g := algebra.NewP256Group()
	gens := []algebra.Element{g.Generator(), g.Generator().Exp(g.Field().FromDigest([]byte("g1")))}
	ip := &fakeIssuerParams{group: g, generators: gens, hashID: "SHA-256"}

	cp, err := FromIssuerParams(ip)
	require.NoError(t, err)
	require.True(t, cp.G0().Equal(gens[0]))
	require.True(t, cp.G1().Equal(gens[1]))

	gens[0] = g.Identity()
	require.False(t, cp.G0().Equal(g.Identity()), "CryptoParams must not alias the issuer's backing slice")
}
