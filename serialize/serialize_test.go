// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialize

import (
	"crypto/rand"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/params"
	"github.com/privacybydesign/upzkp/revocation"
)

func testCryptoParams(t *testing.T) *params.CryptoParams {
	t.Helper()
	cfg, err := params.NewSystemConfig("P-256", "SHA-256", 1)
	require.NoError(t, err)
	cp, err := params.NewCryptoParams(cfg, "serialize-test")
	require.NoError(t, err)
	return cp
}

func TestDLStatementRoundTrip(t *testing.T) {
	cp := testCryptoParams(t)
	x := cp.Field().FromDigest([]byte("attribute"))
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)
	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)

	wire, err := EncodeDLStatement(stmt, true)
	require.NoError(t, err)
	raw, err := wire.Marshal()
	require.NoError(t, err)

	parsed, err := UnmarshalDLStatementWire(raw, true)
	require.NoError(t, err)

	restored, err := parsed.Finish(FinishOptions{AcceptEmbeddedGroup: true})
	require.NoError(t, err)
	require.True(t, restored.Equal(stmt))
}

func TestDLStatementFinishRequiresAGroup(t *testing.T) {
	cp := testCryptoParams(t)
	x := cp.Field().FromDigest([]byte("attribute"))
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)
	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)

	wire, err := EncodeDLStatement(stmt, false)
	require.NoError(t, err)
	_, err = wire.Finish(FinishOptions{})
	require.Error(t, err)
}

func TestDLStatementFinishStrictModeRejectsMismatchedGroup(t *testing.T) {
	cp := testCryptoParams(t)
	x := cp.Field().FromDigest([]byte("attribute"))
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)
	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)

	wire, err := EncodeDLStatement(stmt, true)
	require.NoError(t, err)

	_, err = wire.Finish(FinishOptions{
		AcceptEmbeddedGroup: true,
		FallbackGroup:       algebra.NewBN254Group(),
		StrictMode:          true,
	})
	require.Error(t, err)
}

func TestAccumulatorStateRoundTripExcludesDeltaByDefault(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := revocation.NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)

	wire := EncodeAccumulatorState(acc)
	require.Empty(t, wire.Delta)

	raw, err := wire.Marshal()
	require.NoError(t, err)
	parsed, err := UnmarshalAccumulatorStateWire(raw, true)
	require.NoError(t, err)

	restored, err := parsed.Finish(FinishOptions{AcceptEmbeddedGroup: true}, "ra-seed")
	require.NoError(t, err)
	require.True(t, restored.V.Equal(acc.V))
	require.True(t, restored.RA.K.Equal(acc.RA.K))
	require.True(t, restored.RA.Gt.Equal(acc.RA.Gt))
	require.Nil(t, restored.Delta)
}

func TestAccumulatorStateSecretRoundTripIncludesDelta(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := revocation.NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)

	wire := EncodeAccumulatorStateSecret(acc)
	raw, err := wire.Marshal()
	require.NoError(t, err)
	parsed, err := UnmarshalAccumulatorStateWire(raw, true)
	require.NoError(t, err)

	restored, err := parsed.Finish(FinishOptions{AcceptEmbeddedGroup: true}, "ra-seed")
	require.NoError(t, err)
	require.True(t, restored.Delta.Equal(acc.Delta))
}

func TestUnmarshalAccumulatorStateRejectsEmptyHashID(t *testing.T) {
	_, err := UnmarshalAccumulatorStateWire([]byte(`{"groupName":"P-256","K":"","V":""}`), false)
	require.Error(t, err)
}

func TestNonRevocationProofRoundTrip(t *testing.T) {
	cp := testCryptoParams(t)
	acc, err := revocation.NewRAParams(cp.Group, "ra-seed", "SHA-256", rand.Reader)
	require.NoError(t, err)
	field := cp.Field()

	xid := field.FromDigest([]byte("holder"))
	witness, err := acc.ComputeRevocationWitness(xid)
	require.NoError(t, err)
	oID, err := field.Random(rand.Reader)
	require.NoError(t, err)
	credCommitment, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{xid, oID})
	require.NoError(t, err)

	proof, err := revocation.ProveNonRevocation(cp, acc.RA, acc.V, credCommitment, xid, oID, witness, rand.Reader)
	require.NoError(t, err)

	wire := EncodeNonRevocationProof(proof, cp.Group, true)
	raw, err := wire.Marshal()
	require.NoError(t, err)

	parsed, err := UnmarshalNonRevocationProofWire(raw, true)
	require.NoError(t, err)
	restored, err := parsed.Finish(FinishOptions{AcceptEmbeddedGroup: true})
	require.NoError(t, err)

	require.NoError(t, revocation.Verify(cp, acc.RA, acc.V, credCommitment, restored))
}

func TestEncodeYearAndDayIsBigEndian(t *testing.T) {
	date := time.Date(2024, time.March, 10, 5, 0, 0, 0, time.UTC)
	got := EncodeYearAndDay(date, 2000)
	want := uint32((2024-2000)*366 + date.YearDay())
	require.Equal(t, want, binary.BigEndian.Uint32(got))
}

func TestEncodeDayAndHourIsBigEndian(t *testing.T) {
	date := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)
	got := EncodeDayAndHour(date, 0)
	want := uint32((date.YearDay())*24 + 14)
	require.Equal(t, want, binary.BigEndian.Uint32(got))
}
