// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package credbind

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/params"
)

func testParams(t *testing.T) *params.CryptoParams {
	t.Helper()
	cfg, err := params.NewSystemConfig("P-256", "SHA-256", 1)
	require.NoError(t, err)
	cp, err := params.NewCryptoParams(cfg, "credbind-test")
	require.NoError(t, err)
	return cp
}

func buildSnapshot(t *testing.T, cp *params.CryptoParams, k int, x algebra.Scalar) *PresentationSnapshot {
	t.Helper()
	field := cp.Field()
	o, err := field.Random(rand.Reader)
	require.NoError(t, err)
	v, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{x, o})
	require.NoError(t, err)
	return &PresentationSnapshot{
		CommitmentValues: map[int]algebra.Element{k: v},
		Openings:         map[int]algebra.Scalar{k: o},
		Values:           map[int]algebra.Scalar{k: x},
	}
}

func TestAttributeCommitmentMatchesDeclaredValue(t *testing.T) {
	cp := testParams(t)
	x := cp.Field().FromDigest([]byte("attribute-3"))
	snap := buildSnapshot(t, cp, 3, x)

	c, err := AttributeCommitment(cp, snap, 3)
	require.NoError(t, err)
	stmt, err := c.ClosedStatement()
	require.NoError(t, err)
	require.True(t, stmt.Value.Equal(snap.CommitmentValues[3]))
}

func TestAttributeCommitmentRejectsMissingValue(t *testing.T) {
	cp := testParams(t)
	snap := &PresentationSnapshot{
		CommitmentValues: map[int]algebra.Element{},
		Openings:         map[int]algebra.Scalar{0: cp.Field().Zero()},
		Values:           map[int]algebra.Scalar{},
	}
	_, err := AttributeCommitment(cp, snap, 0)
	require.Error(t, err)
}

func TestAttributeCommitmentRejectsMismatchedDeclaredCommitment(t *testing.T) {
	cp := testParams(t)
	x := cp.Field().FromDigest([]byte("attribute-1"))
	snap := buildSnapshot(t, cp, 1, x)
	snap.CommitmentValues[1] = cp.G1()

	_, err := AttributeCommitment(cp, snap, 1)
	require.Error(t, err)
}

func TestAttributeStatementRequiresCommitmentValue(t *testing.T) {
	cp := testParams(t)
	snap := &PresentationSnapshot{CommitmentValues: map[int]algebra.Element{}}
	_, err := AttributeStatement(cp, snap, 2)
	require.Error(t, err)
}

func TestTokenWitnessRoundTripsWithTokenStatement(t *testing.T) {
	cfg, err := params.NewSystemConfig("P-256", "SHA-256", 2)
	require.NoError(t, err)
	cp, err := params.NewCryptoParams(cfg, "credbind-token-test")
	require.NoError(t, err)
	field := cp.Field()

	issuerKey, err := cp.Group.HashToGroup("credbind-token-test", 100)
	require.NoError(t, err)
	privateKey := field.FromDigest([]byte("issuer-private-key"))
	attrBase, err := cp.AttributeBase(1)
	require.NoError(t, err)
	attrValue := field.FromDigest([]byte("attr-value"))
	tokenBase, err := cp.AttributeBase(2)
	require.NoError(t, err)
	tokenValue := field.FromDigest([]byte("token-value"))

	w, err := TokenWitness(cp, issuerKey, privateKey, []algebra.Element{attrBase}, []algebra.Scalar{attrValue}, tokenBase, tokenValue)
	require.NoError(t, err)
	require.False(t, w.PublicKey.Equal(cp.G0()), "issuerKey must be a real base distinct from g0 for the TokenDL substitution to be non-degenerate")

	h, err := w.Value()
	require.NoError(t, err)

	st, err := TokenStatement(cp, issuerKey, h, []algebra.Element{attrBase}, tokenBase)
	require.NoError(t, err)
	require.True(t, st.Value.Equal(h))

	randomizers := make([]algebra.Scalar, len(w.Bases))
	for i := range randomizers {
		randomizers[i], err = field.Random(rand.Reader)
		require.NoError(t, err)
	}
	commit, err := w.ComputeCommitment(randomizers)
	require.NoError(t, err)

	challenge := field.FromDigest([]byte("challenge"))
	resp := make([]algebra.Scalar, len(w.Bases))
	for i := range resp {
		resp[i] = w.ComputeResponse(challenge, randomizers[i], i)
	}
	require.True(t, st.Verify(commit, challenge, resp))
}

func TestTokenWitnessRejectsZeroPrivateKey(t *testing.T) {
	cp := testParams(t)
	field := cp.Field()
	_, err := TokenWitness(cp, cp.G1(), field.Zero(), nil, nil, cp.G1(), field.One())
	require.Error(t, err)
}

func TestTokenWitnessRejectsLengthMismatch(t *testing.T) {
	cp := testParams(t)
	field := cp.Field()
	_, err := TokenWitness(cp, cp.G1(), field.One(), []algebra.Element{cp.G1()}, nil, cp.G1(), field.One())
	require.Error(t, err)
}
