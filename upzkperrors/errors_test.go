// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package upzkperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParameterErrorMessageAndUnwrap(t *testing.T) {
	err := Parameter("dlrep.NewWitness", "bases", nil)
	require.EqualError(t, err, "dlrep.NewWitness: invalid parameter bases")
	require.Error(t, errors.Unwrap(err))

	cause := errors.New("boom")
	wrapped := Parameter("dlrep.NewWitness", "bases", cause)
	require.ErrorContains(t, errors.Unwrap(wrapped), "boom")
}

func TestParameterErrorWithoutField(t *testing.T) {
	err := Parameter("params.New", "", nil)
	require.EqualError(t, err, "params.New: invalid parameter")
}

func TestInvalidWitnessErrorMessage(t *testing.T) {
	err := InvalidWitness("equality.NewProverSession", nil)
	require.EqualError(t, err, "equality.NewProverSession: invalid witness")
	require.Error(t, errors.Unwrap(err))
}

func TestInvalidArtifactErrorHidesCauseInMessage(t *testing.T) {
	cause := errors.New("challenge mismatch")
	err := InvalidArtifact("revocation.Verify", cause)
	require.EqualError(t, err, "revocation.Verify: invalid artifact")
	require.ErrorContains(t, errors.Unwrap(err), "challenge mismatch")
}

func TestSerializationErrorMessage(t *testing.T) {
	err := Serialization("groupName", nil)
	require.EqualError(t, err, "serialization: groupName")
}

func TestErrorsAsRecoversConcreteType(t *testing.T) {
	var err error = Parameter("op", "field", nil)

	var paramErr *ParameterError
	require.True(t, errors.As(err, &paramErr))
	require.Equal(t, "op", paramErr.Op)
}
