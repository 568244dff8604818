// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algebra

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"

	"github.com/privacybydesign/upzkp/upzkperrors"
)

// Transcript is the incremental hash transcript H of spec §3/§4.1: it
// accepts field elements, group elements, byte strings and integers, each
// absorbed through a fixed canonical encoding (a 4-byte big-endian length
// prefix followed by the element's own canonical bytes), and produces a
// digest on Sum().
type Transcript struct {
	h      hash.Hash
	hashID string
}

// NewTranscript creates a Transcript named by a hash identifier, e.g.
// "SHA-256" or "SHA-512". An unrecognized identifier is a ParameterError.
func NewTranscript(hashID string) (*Transcript, error) {
	var h hash.Hash
	switch hashID {
	case "SHA-256", "":
		h = sha256.New()
	case "SHA-512":
		h = sha512.New()
	default:
		return nil, upzkperrors.Parameter("NewTranscript", "hashID", nil)
	}
	if hashID == "" {
		hashID = "SHA-256"
	}
	return &Transcript{h: h, hashID: hashID}, nil
}

func (t *Transcript) absorb(b []byte) {
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(b)))
	t.h.Write(lenPrefix[:])
	t.h.Write(b)
}

// WriteBytes absorbs a raw byte string.
func (t *Transcript) WriteBytes(b []byte) *Transcript {
	t.absorb(b)
	return t
}

// WriteString absorbs a byte string derived from s (used for e.g. group
// names and hash identifiers that participate in paramsDigest).
func (t *Transcript) WriteString(s string) *Transcript {
	t.absorb([]byte(s))
	return t
}

// WriteInt absorbs an integer as 4-byte big-endian, per spec §4.1.
func (t *Transcript) WriteInt(i int) *Transcript {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(i))
	t.absorb(b[:])
	return t
}

// WriteScalar absorbs a field element via its canonical byte encoding.
func (t *Transcript) WriteScalar(s Scalar) *Transcript {
	t.absorb(s.Bytes())
	return t
}

// WriteElement absorbs a group element via its canonical byte encoding.
func (t *Transcript) WriteElement(e Element) *Transcript {
	t.absorb(e.Bytes())
	return t
}

// Sum returns the digest accumulated so far without resetting state,
// mirroring hash.Hash.Sum(nil) semantics.
func (t *Transcript) Sum() []byte {
	return t.h.Sum(nil)
}

// HashID returns the identifier this transcript was constructed with.
func (t *Transcript) HashID() string {
	return t.hashID
}

// Challenge is a convenience that absorbs the given items in order and
// then reduces the resulting digest into the field via FromDigest,
// producing the Fiat-Shamir challenge scalar c (spec §4.4 step 3).
func Challenge(field Field, hashID string, write func(t *Transcript)) (Scalar, error) {
	t, err := NewTranscript(hashID)
	if err != nil {
		return nil, err
	}
	write(t)
	return field.FromDigest(t.Sum()), nil
}
