// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package upzkperrors defines the error taxonomy used throughout the
// library: ParameterError, InvalidWitnessError, InvalidArtifactError and
// SerializationError (see spec §7). Every error wraps a go-errors/errors
// value so callers that want a stack trace can type-assert to
// *goerrors.Error via errors.As.
package upzkperrors

import (
	goerrors "github.com/go-errors/errors"
)

// ParameterError signals misuse at construction time: nil inputs, wrong
// array lengths, out-of-range indices, bases from the wrong group,
// attribute index 0, MinValue > MaxValue. Raised eagerly, never retried.
type ParameterError struct {
	Op    string
	Field string
	err   error
}

func (e *ParameterError) Error() string {
	if e.Field == "" {
		return e.Op + ": invalid parameter"
	}
	return e.Op + ": invalid parameter " + e.Field
}

func (e *ParameterError) Unwrap() error { return e.err }

// Parameter builds a *ParameterError, capturing a stack trace in the
// wrapped error.
func Parameter(op, field string, cause error) *ParameterError {
	if cause == nil {
		cause = goerrors.New(op + ": " + field)
	} else {
		cause = goerrors.Wrap(cause, 1)
	}
	return &ParameterError{Op: op, Field: field, err: cause}
}

// InvalidWitnessError signals that the prover's witnesses do not actually
// satisfy the claim being proven. The prover must abort before emitting
// any commitment when this occurs, so that no information about the
// witness leaks through partially-constructed proof material.
type InvalidWitnessError struct {
	Op  string
	err error
}

func (e *InvalidWitnessError) Error() string { return e.Op + ": invalid witness" }
func (e *InvalidWitnessError) Unwrap() error { return e.err }

// InvalidWitness builds a *InvalidWitnessError.
func InvalidWitness(op string, cause error) *InvalidWitnessError {
	if cause == nil {
		cause = goerrors.New(op + ": invalid witness")
	} else {
		cause = goerrors.Wrap(cause, 1)
	}
	return &InvalidWitnessError{Op: op, err: cause}
}

// InvalidArtifactError signals that verification failed. Per spec §7 the
// verifier is deliberately total and does not distinguish sub-cases in its
// externally visible Error() string, to avoid side-channel leakage; the
// underlying cause remains reachable via errors.Unwrap for local
// diagnostics only and must never be surfaced to the party whose proof was
// rejected.
type InvalidArtifactError struct {
	Op  string
	err error
}

func (e *InvalidArtifactError) Error() string { return e.Op + ": invalid artifact" }
func (e *InvalidArtifactError) Unwrap() error { return e.err }

// InvalidArtifact builds an *InvalidArtifactError.
func InvalidArtifact(op string, cause error) *InvalidArtifactError {
	if cause == nil {
		cause = goerrors.New(op + ": invalid artifact")
	} else {
		cause = goerrors.Wrap(cause, 1)
	}
	return &InvalidArtifactError{Op: op, err: cause}
}

// SerializationError signals a missing mandatory field, a wrong encoding,
// or a call to a two-phase Finish step before the primary parse completed.
type SerializationError struct {
	Field string
	err   error
}

func (e *SerializationError) Error() string { return "serialization: " + e.Field }
func (e *SerializationError) Unwrap() error { return e.err }

// Serialization builds a *SerializationError.
func Serialization(field string, cause error) *SerializationError {
	if cause == nil {
		cause = goerrors.New("serialization: " + field)
	} else {
		cause = goerrors.Wrap(cause, 1)
	}
	return &SerializationError{Field: field, err: cause}
}
