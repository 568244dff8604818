// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestWipeBytesZeroesInPlace(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	WipeBytes(b)
	require.Equal(t, []byte{0, 0, 0, 0, 0}, b)
}

type countingWiper struct{ count int }

func (w *countingWiper) Wipe() { w.count++ }

func TestWipeAllSkipsNilsAndCallsEveryWiper(t *testing.T) {
	a := &countingWiper{}
	b := &countingWiper{}
	WipeAll(a, nil, b)
	require.Equal(t, 1, a.count)
	require.Equal(t, 1, b.count)
}

func TestDefaultFollowerIsNoOp(t *testing.T) {
	require.NotPanics(t, func() {
		DefaultFollower.StepStart("desc", 3)
		DefaultFollower.Tick()
		DefaultFollower.StepDone()
	})
}

type countingFollower struct{ ticks int }

func (f *countingFollower) StepStart(string, int) {}
func (f *countingFollower) Tick()                 { f.ticks++ }
func (f *countingFollower) StepDone()             {}

func TestFollowerInterfaceIsSatisfiedByCustomImplementation(t *testing.T) {
	var f Follower = &countingFollower{}
	f.Tick()
	f.Tick()
	require.Equal(t, 2, f.(*countingFollower).ticks)
}

func TestLoggerDefaultsToWarnLevel(t *testing.T) {
	require.Equal(t, logrus.WarnLevel, Logger.GetLevel())
}
