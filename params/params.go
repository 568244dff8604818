// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params bundles the crypto parameters consumed by every proof in
// this library (spec §4.2, component C2), generalizing the teacher's
// gabikeys.SystemParameters bundling pattern from a single RSA modulus
// bundle to a generator table over an arbitrary algebra.Group.
package params

import (
	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// CryptoParams is `{ G, F=F_q, generators g0...gn (n>=1), hashId }` from
// the Data Model (spec §3). g0 and g1 are the two Pedersen bases; g2...gn
// are attribute bases.
type CryptoParams struct {
	Group      algebra.Group
	Generators []algebra.Element
	HashID     string
}

// New validates and constructs a CryptoParams bundle directly.
func New(group algebra.Group, generators []algebra.Element, hashID string) (*CryptoParams, error) {
	if len(generators) < 2 {
		return nil, upzkperrors.Parameter("params.New", "generators", nil)
	}
	if hashID == "" {
		return nil, upzkperrors.Parameter("params.New", "hashID", nil)
	}
	cp := &CryptoParams{Group: group, HashID: hashID}
	cp.Generators = make([]algebra.Element, len(generators))
	copy(cp.Generators, generators)
	return cp, nil
}

// Field is a convenience accessor equal to Group.Field().
func (cp *CryptoParams) Field() algebra.Field { return cp.Group.Field() }

// G0 is the first Pedersen base (conventionally the group generator).
func (cp *CryptoParams) G0() algebra.Element { return cp.Generators[0] }

// G1 is the second Pedersen base (the "blinding" generator).
func (cp *CryptoParams) G1() algebra.Element { return cp.Generators[1] }

// AttributeBase returns g_i for a one-based attribute index i (matching
// the external API's one-based attribute indexing convention, spec
// §6/GLOSSARY). AttributeBase(1) is g2 (g0, g1 being the two Pedersen
// bases); an out-of-range or zero index is a ParameterError.
func (cp *CryptoParams) AttributeBase(i int) (algebra.Element, error) {
	if i < 1 {
		return nil, upzkperrors.Parameter("CryptoParams.AttributeBase", "index", nil)
	}
	idx := i + 1
	if idx >= len(cp.Generators) {
		return nil, upzkperrors.Parameter("CryptoParams.AttributeBase", "index", nil)
	}
	return cp.Generators[idx], nil
}

// NumAttributeBases returns how many attribute bases (beyond g0, g1) are
// available.
func (cp *CryptoParams) NumAttributeBases() int {
	if len(cp.Generators) < 2 {
		return 0
	}
	return len(cp.Generators) - 2
}

// IssuerParams is the minimal shape of the external credential-issuance
// collaborator's parameter object that this core consumes (spec §1: "the
// core consumes from these collaborators only (a) a group and field
// description ..."). FromIssuerParams copies the issuer's group and
// generator table, it never retains a reference into the issuer's own
// memory, matching gabi's copy-on-read NewPublicKey pattern.
type IssuerParams interface {
	Group() algebra.Group
	Generators() []algebra.Element
	HashID() string
}

// FromIssuerParams reads an IssuerParams object and copies its group and
// generator table into a fresh CryptoParams (spec §4.2). The table is used
// as given: its first two entries become the Pedersen bases g0 and g1, and
// the entries from g2 on become the attribute bases.
func FromIssuerParams(ip IssuerParams) (*CryptoParams, error) {
	return New(ip.Group(), ip.Generators(), ip.HashID())
}

// SystemConfig is the library's single process-lifetime configuration
// object (spec §5.3 of SPEC_FULL.md), analogous to gabikeys.SystemParameters:
// a small base struct plus eagerly-validated derived constraints.
type SystemConfig struct {
	GroupID       string
	HashID        string
	NumAttributes int
	MaxRangeBits  int
}

// DefaultMaxRangeBits is the fixed implementation constant spec §4.8
// requires ("maxV - minV must not exceed a fixed implementation constant
// (roughly 2^30) for practical proof size").
const DefaultMaxRangeBits = 30

// NewSystemConfig validates and constructs a SystemConfig.
func NewSystemConfig(groupID, hashID string, numAttributes int) (*SystemConfig, error) {
	if groupID == "" {
		return nil, upzkperrors.Parameter("NewSystemConfig", "groupID", nil)
	}
	if hashID == "" {
		return nil, upzkperrors.Parameter("NewSystemConfig", "hashID", nil)
	}
	if numAttributes < 1 {
		return nil, upzkperrors.Parameter("NewSystemConfig", "numAttributes", nil)
	}
	return &SystemConfig{
		GroupID:       groupID,
		HashID:        hashID,
		NumAttributes: numAttributes,
		MaxRangeBits:  DefaultMaxRangeBits,
	}, nil
}

// GroupByID resolves a groupID string ("P-256" or "BN254-G1") to a
// concrete algebra.Group. An unrecognized ID is a ParameterError.
func GroupByID(groupID string) (algebra.Group, error) {
	switch groupID {
	case "P-256":
		return algebra.NewP256Group(), nil
	case "BN254-G1":
		return algebra.NewBN254Group(), nil
	default:
		return nil, upzkperrors.Parameter("GroupByID", "groupID", nil)
	}
}

// NewCryptoParams builds a CryptoParams for the given SystemConfig,
// deriving numAttributes+2 generators (g0 = Group().Generator(), g1..gn
// nothing-up-my-sleeve generators independently hash-to-curve derived from
// an index-tagged seed, via the backend's own Group.HashToGroup). This is
// the common path for standalone use outside of a full credential-issuance
// integration (see credbind for the latter).
func NewCryptoParams(cfg *SystemConfig, seed string) (*CryptoParams, error) {
	group, err := GroupByID(cfg.GroupID)
	if err != nil {
		return nil, err
	}
	generators := make([]algebra.Element, cfg.NumAttributes+2)
	generators[0] = group.Generator()
	for i := 1; i < len(generators); i++ {
		g, err := group.HashToGroup(seed, i)
		if err != nil {
			return nil, err
		}
		generators[i] = g
	}
	return New(group, generators, cfg.HashID)
}
