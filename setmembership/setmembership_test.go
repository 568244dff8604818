// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package setmembership

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/params"
)

func testParams(t *testing.T) *params.CryptoParams {
	t.Helper()
	cfg, err := params.NewSystemConfig("P-256", "SHA-256", 1)
	require.NoError(t, err)
	cp, err := params.NewCryptoParams(cfg, "setmembership-test")
	require.NoError(t, err)
	return cp
}

func scalarSet(cp *params.CryptoParams, values ...int64) []algebra.Scalar {
	field := cp.Field()
	out := make([]algebra.Scalar, len(values))
	for i, v := range values {
		b := []byte{byte(v)}
		out[i] = field.FromDigest(b)
	}
	return out
}

func TestProveVerifyMembership(t *testing.T) {
	cp := testParams(t)
	set := scalarSet(cp, 1, 3, 7, 11)
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), set[2], rand.Reader)
	require.NoError(t, err)

	proof, err := Prove(cp, set, commitment, rand.Reader)
	require.NoError(t, err)

	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)
	require.NoError(t, Verify(cp, set, stmt.Value, proof))
}

func TestProveRejectsValueOutsideSet(t *testing.T) {
	cp := testParams(t)
	set := scalarSet(cp, 1, 3, 7, 11)
	absent := cp.Field().FromDigest([]byte{42})
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), absent, rand.Reader)
	require.NoError(t, err)

	_, err = Prove(cp, set, commitment, rand.Reader)
	require.Error(t, err)
}

func TestProveRejectsEmptySet(t *testing.T) {
	cp := testParams(t)
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), cp.Field().Zero(), rand.Reader)
	require.NoError(t, err)
	_, err = Prove(cp, nil, commitment, rand.Reader)
	require.Error(t, err)
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	cp := testParams(t)
	set := scalarSet(cp, 1, 3, 7, 11)
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), set[0], rand.Reader)
	require.NoError(t, err)

	proof, err := Prove(cp, set, commitment, rand.Reader)
	require.NoError(t, err)
	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)

	tampered := proof.Clone()
	tampered.R[0] = tampered.R[0].Add(cp.Field().One())
	require.Error(t, Verify(cp, set, stmt.Value, tampered))
}
