// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package serialize implements the external-interface encodings of spec
// §6: base64 group-element/scalar field encoding, the two-phase
// deserialize/finish pattern proof objects and accumulator state go
// through before any cryptographic operation can touch them, and the two
// bit-exact integer-to-attribute date encodings used by range proofs.
package serialize

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/dlrep"
	"github.com/privacybydesign/upzkp/equality"
	"github.com/privacybydesign/upzkp/revocation"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// encodeElement/encodeScalar/decodeElement/decodeScalar are the base64
// wire codecs spec §6 requires ("group elements and scalars are
// base64-encoded using the group's canonical byte encoding").

func encodeElement(e algebra.Element) string {
	return base64.StdEncoding.EncodeToString(e.Bytes())
}

func encodeScalar(s algebra.Scalar) string {
	return base64.StdEncoding.EncodeToString(s.Bytes())
}

func decodeElement(group algebra.Group, s string) (algebra.Element, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, upzkperrors.Serialization("element", err)
	}
	e, err := group.FromBytes(raw)
	if err != nil {
		return nil, upzkperrors.Serialization("element", err)
	}
	return e, nil
}

func decodeScalar(field algebra.Field, s string) (algebra.Scalar, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, upzkperrors.Serialization("scalar", err)
	}
	sc, err := field.FromBytes(raw)
	if err != nil {
		return nil, upzkperrors.Serialization("scalar", err)
	}
	return sc, nil
}

// FinishOptions are the recognized options of spec §6's two-phase finish
// step.
type FinishOptions struct {
	// AcceptEmbeddedGroup: if the payload carries a group descriptor, use
	// it rather than FallbackGroup.
	AcceptEmbeddedGroup bool
	// FallbackGroup is used only if the payload omits a group descriptor,
	// or AcceptEmbeddedGroup is false.
	FallbackGroup algebra.Group
	// StrictMode rejects a payload whose GroupName doesn't match
	// FallbackGroup's name when both are present, instead of silently
	// preferring one.
	StrictMode bool
}

// resolveGroup implements the shared group-selection rule every finish
// step in this package follows. An accepted embedded group name is
// resolved to "P-256" or "BN254-G1"; any other name is a
// SerializationError.
func resolveGroup(payloadGroupName string, opts FinishOptions) (algebra.Group, error) {
	haveEmbedded := opts.AcceptEmbeddedGroup && payloadGroupName != ""
	switch {
	case haveEmbedded:
		if opts.FallbackGroup != nil && payloadGroupName == opts.FallbackGroup.Name() {
			return opts.FallbackGroup, nil
		}
		if opts.StrictMode && opts.FallbackGroup != nil {
			return nil, upzkperrors.Serialization("groupName", nil)
		}
		switch payloadGroupName {
		case "P-256":
			return algebra.NewP256Group(), nil
		case "BN254-G1":
			return algebra.NewBN254Group(), nil
		}
		return nil, upzkperrors.Serialization("groupName", nil)
	case opts.FallbackGroup != nil:
		return opts.FallbackGroup, nil
	default:
		return nil, upzkperrors.Serialization("group", nil)
	}
}

// DLStatementWire is the canonical wire representation of a dlrep.Statement
// (spec §6: "each proof object has a canonical structured representation
// whose field names are fixed short identifiers").
type DLStatementWire struct {
	GroupName string   `json:"groupName,omitempty"`
	Kind      int      `json:"kind"`
	Bases     []string `json:"bases"`
	Value     string   `json:"value"`
	PublicKey string   `json:"publicKey,omitempty"`
}

// EncodeDLStatement produces the wire form of st. groupName is embedded
// only when includeGroup is set (a prover-side convenience; verifiers
// that already share an out-of-band group descriptor may omit it).
func EncodeDLStatement(st *dlrep.Statement, includeGroup bool) (*DLStatementWire, error) {
	w := &DLStatementWire{
		Kind:  int(st.Kind),
		Value: encodeElement(st.Value),
	}
	if includeGroup {
		w.GroupName = st.Group.Name()
	}
	for _, b := range st.Bases {
		w.Bases = append(w.Bases, encodeElement(b))
	}
	if st.PublicKey != nil {
		w.PublicKey = encodeElement(st.PublicKey)
	}
	return w, nil
}

// Marshal serializes w to the JSON wire format.
func (w *DLStatementWire) Marshal() ([]byte, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, upzkperrors.Serialization("DLStatementWire", err)
	}
	return b, nil
}

// UnmarshalDLStatementWire parses a serialized dlrep.Statement. The
// result is incomplete (bases/value are still base64 strings) until
// Finish is called — spec §6's two-phase requirement.
func UnmarshalDLStatementWire(b []byte, strictMode bool) (*DLStatementWire, error) {
	var w DLStatementWire
	dec := json.NewDecoder(bytes.NewReader(b))
	if strictMode {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&w); err != nil {
		return nil, upzkperrors.Serialization("DLStatementWire", err)
	}
	return &w, nil
}

// Finish binds w to a concrete group, completing the two-phase
// deserialize/finish pattern and producing a usable dlrep.Statement.
func (w *DLStatementWire) Finish(opts FinishOptions) (*dlrep.Statement, error) {
	group, err := resolveGroup(w.GroupName, opts)
	if err != nil {
		return nil, err
	}
	bases := make([]algebra.Element, len(w.Bases))
	for i, b := range w.Bases {
		e, err := decodeElement(group, b)
		if err != nil {
			return nil, err
		}
		bases[i] = e
	}
	value, err := decodeElement(group, w.Value)
	if err != nil {
		return nil, err
	}
	st, err := dlrep.NewStatement(dlrep.Kind(w.Kind), group, bases, value)
	if err != nil {
		return nil, err
	}
	if w.PublicKey != "" {
		pk, err := decodeElement(group, w.PublicKey)
		if err != nil {
			return nil, err
		}
		st.PublicKey = pk
	}
	return st, nil
}

// EqualityProofWire is the canonical wire representation of an
// equality.Proof (spec §6): one commitment per statement, one response per
// equivalence class, and one response per exponent outside every class.
type EqualityProofWire struct {
	B      []string `json:"b"`
	RespEq []string `json:"respEq"`
	RespNe []string `json:"respNe,omitempty"`
}

func encodeEqualityProof(p *equality.Proof) *EqualityProofWire {
	w := &EqualityProofWire{
		B:      make([]string, len(p.B)),
		RespEq: make([]string, len(p.RespEq)),
	}
	for i, e := range p.B {
		w.B[i] = encodeElement(e)
	}
	for i, s := range p.RespEq {
		w.RespEq[i] = encodeScalar(s)
	}
	for _, s := range p.RespNe {
		w.RespNe = append(w.RespNe, encodeScalar(s))
	}
	return w
}

func (w *EqualityProofWire) finish(group algebra.Group) (*equality.Proof, error) {
	field := group.Field()
	b := make([]algebra.Element, len(w.B))
	for i, raw := range w.B {
		e, err := decodeElement(group, raw)
		if err != nil {
			return nil, err
		}
		b[i] = e
	}
	respEq := make([]algebra.Scalar, len(w.RespEq))
	for i, raw := range w.RespEq {
		s, err := decodeScalar(field, raw)
		if err != nil {
			return nil, err
		}
		respEq[i] = s
	}
	var respNe []algebra.Scalar
	for _, raw := range w.RespNe {
		s, err := decodeScalar(field, raw)
		if err != nil {
			return nil, err
		}
		respNe = append(respNe, s)
	}
	return &equality.Proof{B: b, RespEq: respEq, RespNe: respNe}, nil
}

// NonRevocationProofWire is the canonical wire representation of
// revocation.NonRevocationProof: the equality-engine Link proof plus the
// X, Y, H, Cd group elements it ties together.
type NonRevocationProofWire struct {
	GroupName string              `json:"groupName,omitempty"`
	Link      *EqualityProofWire  `json:"link"`
	X         string              `json:"X"`
	Y         string              `json:"Y"`
	H         string              `json:"H"`
	Cd        string              `json:"Cd"`
}

// EncodeNonRevocationProof produces the wire form of p.
func EncodeNonRevocationProof(p *revocation.NonRevocationProof, group algebra.Group, includeGroup bool) *NonRevocationProofWire {
	w := &NonRevocationProofWire{
		Link: encodeEqualityProof(p.Link),
		X:    encodeElement(p.X),
		Y:    encodeElement(p.Y),
		H:    encodeElement(p.H),
		Cd:   encodeElement(p.Cd),
	}
	if includeGroup {
		w.GroupName = group.Name()
	}
	return w
}

// Marshal serializes w to the JSON wire format.
func (w *NonRevocationProofWire) Marshal() ([]byte, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, upzkperrors.Serialization("NonRevocationProofWire", err)
	}
	return b, nil
}

// UnmarshalNonRevocationProofWire parses a serialized NonRevocationProof.
func UnmarshalNonRevocationProofWire(b []byte, strictMode bool) (*NonRevocationProofWire, error) {
	var w NonRevocationProofWire
	dec := json.NewDecoder(bytes.NewReader(b))
	if strictMode {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&w); err != nil {
		return nil, upzkperrors.Serialization("NonRevocationProofWire", err)
	}
	return &w, nil
}

// Finish binds w to a concrete group/field.
func (w *NonRevocationProofWire) Finish(opts FinishOptions) (*revocation.NonRevocationProof, error) {
	group, err := resolveGroup(w.GroupName, opts)
	if err != nil {
		return nil, err
	}
	if w.Link == nil {
		return nil, upzkperrors.Serialization("NonRevocationProofWire.link", nil)
	}
	link, err := w.Link.finish(group)
	if err != nil {
		return nil, err
	}
	X, err := decodeElement(group, w.X)
	if err != nil {
		return nil, err
	}
	Y, err := decodeElement(group, w.Y)
	if err != nil {
		return nil, err
	}
	H, err := decodeElement(group, w.H)
	if err != nil {
		return nil, err
	}
	Cd, err := decodeElement(group, w.Cd)
	if err != nil {
		return nil, err
	}
	return &revocation.NonRevocationProof{Link: link, X: X, Y: Y, H: H, Cd: Cd}, nil
}

// AccumulatorStateWire is the canonical persistence format of spec §6:
// "(groupName, K, hashId, V, δ) serialized; δ must be protected as a
// secret." Delta is therefore omitted from JSON by default — callers
// that genuinely need to persist authority state (not hand it to a
// verifier) use EncodeAccumulatorStateSecret to opt into including it.
type AccumulatorStateWire struct {
	GroupName string `json:"groupName"`
	HashID    string `json:"hashId"`
	K         string `json:"K"`
	V         string `json:"V"`
	Delta     string `json:"delta,omitempty"`
}

// EncodeAccumulatorState serializes the public portion of an
// accumulator's state: enough for a verifier to run Verify, but never δ.
func EncodeAccumulatorState(acc *revocation.Accumulator) *AccumulatorStateWire {
	return &AccumulatorStateWire{
		GroupName: acc.RA.Group.Name(),
		HashID:    acc.RA.HashID,
		K:         encodeElement(acc.RA.K),
		V:         encodeElement(acc.V),
	}
}

// EncodeAccumulatorStateSecret additionally includes δ, for the
// authority's own durable storage only; callers must ensure this never
// reaches a verifier or prover.
func EncodeAccumulatorStateSecret(acc *revocation.Accumulator) *AccumulatorStateWire {
	w := EncodeAccumulatorState(acc)
	w.Delta = encodeScalar(acc.Delta)
	return w
}

// Marshal serializes w to the JSON wire format.
func (w *AccumulatorStateWire) Marshal() ([]byte, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, upzkperrors.Serialization("AccumulatorStateWire", err)
	}
	return b, nil
}

// UnmarshalAccumulatorStateWire parses a serialized accumulator state.
func UnmarshalAccumulatorStateWire(b []byte, strictMode bool) (*AccumulatorStateWire, error) {
	var w AccumulatorStateWire
	dec := json.NewDecoder(bytes.NewReader(b))
	if strictMode {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&w); err != nil {
		return nil, upzkperrors.Serialization("AccumulatorStateWire", err)
	}
	if w.HashID == "" {
		return nil, upzkperrors.Serialization("hashId", nil)
	}
	return &w, nil
}

// Finish binds w to a concrete group, reconstructing an RAParams and the
// accumulator it parameterizes. generatorSeed must be the same seed the
// authority originally passed to revocation.NewRAParams — g/g1/gt are
// ambient system parameters, not part of the persisted fields spec §6
// names, so they are re-derived rather than decoded off the wire (see
// revocation.DeriveGenerators). The resulting Accumulator's Delta is nil
// unless w carries one (it does only if produced by
// EncodeAccumulatorStateSecret) — an Accumulator with a nil Delta can
// still drive Verify but not VerifyDesignated or
// ComputeRevocationWitness/UpdateAccumulator.
func (w *AccumulatorStateWire) Finish(opts FinishOptions, generatorSeed string) (*revocation.Accumulator, error) {
	group, err := resolveGroup(w.GroupName, opts)
	if err != nil {
		return nil, err
	}
	K, err := decodeElement(group, w.K)
	if err != nil {
		return nil, err
	}
	V, err := decodeElement(group, w.V)
	if err != nil {
		return nil, err
	}
	g, g1, gt, err := revocation.DeriveGenerators(group, generatorSeed)
	if err != nil {
		return nil, err
	}
	ra := &revocation.RAParams{Group: group, G: g, G1: g1, Gt: gt, K: K, HashID: w.HashID}
	acc := &revocation.Accumulator{RA: ra, V: V}
	if w.Delta != "" {
		delta, err := decodeScalar(group.Field(), w.Delta)
		if err != nil {
			return nil, err
		}
		acc.Delta = delta
	}
	return acc, nil
}

// encodeUint32BE is the big-endian 4-byte integer encoding spec §6
// requires for the serialized date-range attribute.
func encodeUint32BE(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// EncodeYearAndDay implements spec §6's bit-exact date encoding:
// `(date.year − minYear) · 366 + date.dayOfYear`, returned as the
// big-endian 4-byte serialized integer attribute.
func EncodeYearAndDay(date time.Time, minYear int) []byte {
	v := uint32((date.Year()-minYear)*366 + date.YearDay())
	return encodeUint32BE(v)
}

// EncodeDayAndHour implements spec §6's bit-exact date encoding:
// `(date.dayOfYear − minDay) · 24 + date.hour`, returned as the
// big-endian 4-byte serialized integer attribute.
func EncodeDayAndHour(date time.Time, minDay int) []byte {
	v := uint32((date.YearDay()-minDay)*24 + date.Hour())
	return encodeUint32BE(v)
}
