// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equality implements the reusable "equality of exponents across
// multiple representations" Sigma protocol (spec §4.4, component C4) that
// every other proof in this library is expressed against.
package equality

import (
	"sort"

	"github.com/privacybydesign/upzkp/algebra"
	"github.com/privacybydesign/upzkp/upzkperrors"
)

// ExponentRef names one exponent slot: the statementIndex-th statement's
// exponentIndex-th exponent.
type ExponentRef struct {
	Statement int
	Exponent  int
}

func (r ExponentRef) less(o ExponentRef) bool {
	if r.Statement != o.Statement {
		return r.Statement < o.Statement
	}
	return r.Exponent < o.Exponent
}

// Map is the equality map M of spec §3: a relation over
// (statementIndex, exponentIndex) pairs partitioning some of them into
// equivalence classes labelled by an application-visible name. It is
// stored as two mutually indexed Go maps (class name to its refs, and ref
// to its class name); there is no flat array of records. Sorted traversal
// is built at digest/canonicalization time, so the digest never depends on
// Go's randomized map iteration order or on insertion order.
type Map struct {
	refsByClass map[string][]ExponentRef
	classByRef  map[ExponentRef]string
}

// NewMap creates an empty equality map.
func NewMap() *Map {
	return &Map{
		refsByClass: make(map[string][]ExponentRef),
		classByRef:  make(map[ExponentRef]string),
	}
}

// Add asserts that statement j's exponent i belongs to the named
// equivalence class. Re-adding the same ref under a different name is a
// ParameterError (the ref is already spoken for).
func (m *Map) Add(name string, statement, exponent int) error {
	if name == "" {
		return upzkperrors.Parameter("Map.Add", "name", nil)
	}
	ref := ExponentRef{Statement: statement, Exponent: exponent}
	if existing, ok := m.classByRef[ref]; ok {
		if existing != name {
			return upzkperrors.Parameter("Map.Add", "ref already in another class", nil)
		}
		return nil
	}
	m.classByRef[ref] = name
	m.refsByClass[name] = append(m.refsByClass[name], ref)
	return nil
}

// ClassNames returns the class names in canonical (sorted) order, so that
// two equality maps with the same equivalence classes but different
// insertion orders iterate identically (spec §8 testable property 4).
func (m *Map) ClassNames() []string {
	names := make([]string, 0, len(m.refsByClass))
	for n := range m.refsByClass {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RefsInClass returns the refs of the named class in canonical (sorted by
// statement then exponent) order.
func (m *Map) RefsInClass(name string) []ExponentRef {
	refs := append([]ExponentRef{}, m.refsByClass[name]...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].less(refs[j]) })
	return refs
}

// ClassOf reports which class (if any) a given (statement, exponent)
// pair belongs to.
func (m *Map) ClassOf(statement, exponent int) (string, bool) {
	c, ok := m.classByRef[ExponentRef{Statement: statement, Exponent: exponent}]
	return c, ok
}

// validateIndices checks every ref in the map is in range for the given
// statements, per spec §4.4's failure mode: "the prover aborts before
// emitting any commitment if any map entry references an out-of-range
// statement or exponent."
func (m *Map) validateIndices(numExponents []int) error {
	for ref := range m.classByRef {
		if ref.Statement < 0 || ref.Statement >= len(numExponents) {
			return upzkperrors.Parameter("Map", "out-of-range statement index", nil)
		}
		if ref.Exponent < 0 || ref.Exponent >= numExponents[ref.Statement] {
			return upzkperrors.Parameter("Map", "out-of-range exponent index", nil)
		}
	}
	return nil
}

// Digest absorbs a canonical encoding of M into the transcript: classes
// sorted by name, then exponent refs inside each class sorted by
// (statement, exponent) — the mapDigest of spec §4.4 step 3.
func (m *Map) Digest(t *algebra.Transcript) {
	names := m.ClassNames()
	t.WriteInt(len(names))
	for _, name := range names {
		t.WriteString(name)
		refs := m.RefsInClass(name)
		t.WriteInt(len(refs))
		for _, r := range refs {
			t.WriteInt(r.Statement)
			t.WriteInt(r.Exponent)
		}
	}
}
