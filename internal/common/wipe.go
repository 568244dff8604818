// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

// WipeBytes overwrites b with zeroes in place. It is the implementation of
// the "secret wiping" design note in spec §9: the teacher's source
// contains explicit TODOs noting that random-data holders do not securely
// zero memory; this is the non-TODO version of that.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Wiper is implemented by any witness/randomizer container that holds
// secret scalar material and must zero it once a proof session is
// finished (on both the success and the error path).
type Wiper interface {
	Wipe()
}

// WipeAll calls Wipe on every non-nil Wiper, ignoring nils so callers can
// pass a fixed-size array of optional fields.
func WipeAll(ws ...Wiper) {
	for _, w := range ws {
		if w != nil {
			w.Wipe()
		}
	}
}
