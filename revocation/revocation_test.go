// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package revocation

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/params"
)

func testCryptoParams(t *testing.T) *params.CryptoParams {
	t.Helper()
	cfg, err := params.NewSystemConfig("P-256", "SHA-256", 1)
	require.NoError(t, err)
	cp, err := params.NewCryptoParams(cfg, "revocation-test")
	require.NoError(t, err)
	return cp
}

func TestFreshAccumulatorHasNoRevoked(t *testing.T) {
	group := algebra.NewP256Group()
	acc, err := NewRAParams(group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	require.Empty(t, acc.Revoked)
	require.True(t, acc.V.Equal(acc.RA.Gt))
}

func TestUpdateAccumulatorAddThenRemoveIsIdentity(t *testing.T) {
	group := algebra.NewP256Group()
	acc, err := NewRAParams(group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := group.Field()

	original := acc.V
	x := field.FromDigest([]byte("revoked-element"))

	require.NoError(t, acc.UpdateAccumulator([]algebra.Scalar{x}, nil))
	require.Len(t, acc.Revoked, 1)
	require.False(t, acc.V.Equal(original))

	require.NoError(t, acc.UpdateAccumulator(nil, []algebra.Scalar{x}))
	require.Empty(t, acc.Revoked)
	require.True(t, acc.V.Equal(original), "adding then removing the same element must restore V")
}

func TestUpdateAccumulatorRejectsNegativeDelta(t *testing.T) {
	group := algebra.NewP256Group()
	acc, err := NewRAParams(group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)

	err = acc.UpdateAccumulator([]algebra.Scalar{acc.Delta.Neg()}, nil)
	require.Error(t, err)
}

func TestComputeRevocationWitnessRejectsRevokedID(t *testing.T) {
	group := algebra.NewP256Group()
	acc, err := NewRAParams(group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := group.Field()
	xid := field.FromDigest([]byte("holder"))

	require.NoError(t, acc.UpdateAccumulator([]algebra.Scalar{xid}, nil))
	_, err = acc.ComputeRevocationWitness(xid)
	require.Error(t, err)
}

func TestComputeRevocationWitnessAndProofRoundTrip(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := cp.Field()

	xid := field.FromDigest([]byte("holder"))
	revoked := field.FromDigest([]byte("someone-else"))
	require.NoError(t, acc.UpdateAccumulator([]algebra.Scalar{revoked}, nil))

	witness, err := acc.ComputeRevocationWitness(xid)
	require.NoError(t, err)
	require.False(t, witness.D.IsZero())

	oID, err := field.Random(rand.Reader)
	require.NoError(t, err)
	credCommitment, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{xid, oID})
	require.NoError(t, err)

	proof, err := ProveNonRevocation(cp, acc.RA, acc.V, credCommitment, xid, oID, witness, rand.Reader)
	require.NoError(t, err)

	require.NoError(t, Verify(cp, acc.RA, acc.V, credCommitment, proof))
	require.NoError(t, VerifyDesignated(cp, acc, credCommitment, proof))
}

func TestProveNonRevocationRejectsInconsistentWitness(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := cp.Field()

	xid := field.FromDigest([]byte("holder"))
	oID, err := field.Random(rand.Reader)
	require.NoError(t, err)
	credCommitment, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{xid, oID})
	require.NoError(t, err)

	forged := &Witness{D: field.One(), W: acc.RA.Gt, Q: acc.RA.Gt}
	_, err = ProveNonRevocation(cp, acc.RA, acc.V, credCommitment, xid, oID, forged, rand.Reader)
	require.Error(t, err)
}

func TestVerifyDesignatedRejectsWrongAuthority(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	otherAcc, err := NewRAParams(cp.Group, "other-ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := cp.Field()

	xid := field.FromDigest([]byte("holder"))
	witness, err := acc.ComputeRevocationWitness(xid)
	require.NoError(t, err)
	oID, err := field.Random(rand.Reader)
	require.NoError(t, err)
	credCommitment, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{xid, oID})
	require.NoError(t, err)

	proof, err := ProveNonRevocation(cp, acc.RA, acc.V, credCommitment, xid, oID, witness, rand.Reader)
	require.NoError(t, err)

	require.Error(t, VerifyDesignated(cp, otherAcc, credCommitment, proof))
}

func TestUpdateWitnessAddTracksAccumulator(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := cp.Field()

	xid := field.FromDigest([]byte("holder"))
	witness, err := acc.ComputeRevocationWitness(xid)
	require.NoError(t, err)
	oldV := acc.V

	y := field.FromDigest([]byte("newly-revoked"))
	require.NoError(t, acc.UpdateAccumulator([]algebra.Scalar{y}, nil))

	updated, err := UpdateWitnessAdd(acc.RA, oldV, witness, xid, y)
	require.NoError(t, err)
	finalized, err := FinalizeWitness(acc.RA, acc.V, updated, xid)
	require.NoError(t, err)

	expected, err := acc.ComputeRevocationWitness(xid)
	require.NoError(t, err)
	require.True(t, finalized.D.Equal(expected.D))
	require.True(t, finalized.W.Equal(expected.W))
	require.True(t, finalized.Q.Equal(expected.Q))
}
