// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rangeproof

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
	cp, err := params.NewCryptoParams(cfg, "rangeproof-test")
	require.NoError(t, err)
	return cp
}

func zeroOpeningValue(t *testing.T, cp *params.CryptoParams, x algebra.Scalar) algebra.Element {
	t.Helper()
	field := cp.Field()
	v, err := cp.Group.MultiExp([]algebra.Element{cp.G0(), cp.G1()}, []algebra.Scalar{x, field.Zero()})
	require.NoError(t, err)
	return v
}

func TestRangeProofGreaterOrEqualConstant(t *testing.T) {
	cp := testParams(t)
	x := scalarFromInt64(cp.Field(), 25)

	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)

	proof, err := ProveAgainstConstant(cp, commitment, 0, 0, 150, 16, GreaterOrEqual, rand.Reader)
	require.NoError(t, err)

	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)
	bValue := zeroOpeningValue(t, cp, scalarFromInt64(cp.Field(), 0))

	require.NoError(t, Verify(cp, stmt.Value, bValue, 0, 150, GreaterOrEqual, proof))
}

func TestRangeProofLessConstant(t *testing.T) {
	cp := testParams(t)
	x := scalarFromInt64(cp.Field(), 5)

	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)

	proof, err := ProveAgainstConstant(cp, commitment, 10, 0, 150, 16, Less, rand.Reader)
	require.NoError(t, err)

	stmt, err := commitment.ClosedStatement()
	require.NoError(t, err)
	bValue := zeroOpeningValue(t, cp, scalarFromInt64(cp.Field(), 10))

	require.NoError(t, Verify(cp, stmt.Value, bValue, 0, 150, Less, proof))
}

func TestRangeProofRejectsValueOutsideBounds(t *testing.T) {
	cp := testParams(t)
	x := scalarFromInt64(cp.Field(), 200)
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)

	_, err = ProveAgainstConstant(cp, commitment, 0, 0, 150, 16, GreaterOrEqual, rand.Reader)
	require.Error(t, err)
}

func TestRangeProofRejectsInvertedBounds(t *testing.T) {
	cp := testParams(t)
	x := scalarFromInt64(cp.Field(), 25)
	commitment, err := dlrep.CommitValue(cp.Group, cp.G0(), cp.G1(), x, rand.Reader)
	require.NoError(t, err)

	_, err = ProveAgainstConstant(cp, commitment, 0, 150, 0, 16, GreaterOrEqual, rand.Reader)
	require.Error(t, err)
}
