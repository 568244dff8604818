// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package common holds small helpers shared across the proof packages:
// progress reporting, secret wiping, and the package-level logger. It is
// the generalization of gabi's internal/common helper package.
package common

// Follower receives progress notifications from long-running proof
// constructions (bit-decomposition proofs iterate once per bit, the
// revocation authority's witness recomputation iterates once per revoked
// element). Grounded directly on keyproof/progresslog_test.go, the one
// surviving file of the teacher's keyproof subpackage, which sets a
// package-level Follower to a test double implementing exactly this
// interface.
type Follower interface {
	StepStart(desc string, intermediates int)
	Tick()
	StepDone()
}

// nopFollower discards all progress notifications.
type nopFollower struct{}

func (nopFollower) StepStart(string, int) {}
func (nopFollower) Tick()                 {}
func (nopFollower) StepDone()             {}

// DefaultFollower is used wherever a caller does not supply its own
// Follower. Tests may replace it with a counting implementation, exactly
// as keyproof/progresslog_test.go does for the TestFollower.
var DefaultFollower Follower = nopFollower{}
