// Mgmt
// Copyright (C) 2013-2018+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package ast

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vexlang/vexc/types"
)

// SymbolState tracks a binding's ownership state across the borrow checker's
// four phases (spec.md §4.1). A binding starts Live, becomes Moved when its
// value is moved out (spec.md's Open Question: whole-binding, not
// per-field), and Dropped once its owning scope exits.
type SymbolState int

const (
	// StateLive means the binding owns a value and may be read/borrowed.
	StateLive SymbolState = iota
	// StateMoved means the binding's value has been moved away; any
	// further use is a UseAfterMove diagnostic.
	StateMoved
	// StateDropped means the binding's owning scope has exited.
	StateDropped
)

func (s SymbolState) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateMoved:
		return "moved"
	case StateDropped:
		return "dropped"
	}
	return "?"
}

// Symbol is a named binding inside a Scope: a `let`/`let!` variable, a
// function parameter, or a `for` loop variable. It carries the state the
// borrow checker mutates as it walks the AST.
type Symbol struct {
	Name    string
	Type    *types.Type // filled in by the unifier once inference resolves it
	Mutable bool        // declared with `let!` or a `mut` parameter

	// Scope is the id of the Scope that owns this binding. Used by the
	// lifetime phase to compute how long a reference into this binding
	// may legally live (spec.md's lexical-only lifetime decision).
	Scope ScopeID

	State       SymbolState
	MovedAt     Span // valid only when State == StateMoved
	DeclaredAt  Span
	BorrowCount int // number of live shared borrows; see borrow/borrows.go
	MutBorrowed bool
}

// ScopeID is an arena handle into a driver.Unit's scope table, per
// spec.md §9's recommendation to use integer handles instead of raw
// pointers so the borrow checker's scope tree can be serialized, diffed,
// and walked without pointer-chasing.
type ScopeID int

// Scope represents one lexical block: a function body, an if/match arm, a
// loop body, or the top-level module scope. Modeled on the teacher's
// interfaces.Scope (Variables/Classes maps plus a parent chain), but
// structured as an arena-addressed tree instead of embedded pointers so the
// borrow checker can hand out stable ScopeIDs (spec.md §9 Design Notes).
type Scope struct {
	ID       ScopeID
	Parent   ScopeID // -1 for the root/module scope
	HasPar   bool
	Children []ScopeID

	Symbols map[string]*Symbol

	// Classes holds statement-level declarations visible in this scope:
	// struct/enum/trait/impl/function definitions, mirroring the
	// teacher's Scope.Classes map of named Stmt declarations.
	Classes map[string]Stmt
}

func newScope(id, parent ScopeID, hasParent bool) *Scope {
	return &Scope{
		ID:      id,
		Parent:  parent,
		HasPar:  hasParent,
		Symbols: make(map[string]*Symbol),
		Classes: make(map[string]Stmt),
	}
}

// ScopeTree is the arena holding every Scope in a compilation unit,
// addressed by ScopeID. This is the concrete realization of spec.md §9's
// "arena allocation with integer handles" recommendation, applied to
// scopes (the borrow checker's hottest allocation path).
type ScopeTree struct {
	UnitID  uuid.UUID
	scopes  []*Scope
}

// NewScopeTree creates a tree with a single root scope.
func NewScopeTree() *ScopeTree {
	t := &ScopeTree{UnitID: uuid.New()}
	t.scopes = append(t.scopes, newScope(0, -1, false))
	return t
}

// Root returns the module-level scope's id.
func (t *ScopeTree) Root() ScopeID { return 0 }

// New creates a child scope of parent and returns its id.
func (t *ScopeTree) New(parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	s := newScope(id, parent, true)
	t.scopes = append(t.scopes, s)
	t.scopes[parent].Children = append(t.scopes[parent].Children, id)
	return id
}

// Get returns the Scope for id. Panics on an out-of-range id since a
// ScopeID is only ever minted by this tree: an invalid one is a compiler
// bug, not a user-facing error.
func (t *ScopeTree) Get(id ScopeID) *Scope {
	return t.scopes[id]
}

// Declare adds a new symbol to scope id, shadowing any same-named symbol in
// an ancestor scope (child scopes may shadow a parent's binding, matching
// the teacher's Scope doc comment) but erroring on a redeclaration within
// the *same* scope.
func (t *ScopeTree) Declare(id ScopeID, sym *Symbol) error {
	s := t.Get(id)
	if _, exists := s.Symbols[sym.Name]; exists {
		return fmt.Errorf("%q is already declared in this scope", sym.Name)
	}
	sym.Scope = id
	s.Symbols[sym.Name] = sym
	return nil
}

// Lookup searches scope id and its ancestors for a symbol named name,
// returning the nearest (most deeply nested) match.
func (t *ScopeTree) Lookup(id ScopeID, name string) (*Symbol, bool) {
	for {
		s := t.Get(id)
		if sym, ok := s.Symbols[name]; ok {
			return sym, true
		}
		if !s.HasPar {
			return nil, false
		}
		id = s.Parent
	}
}

// LookupClass searches scope id and its ancestors for a named declaration
// (struct/enum/trait/function), mirroring the teacher's Scope.Classes
// lookup semantics.
func (t *ScopeTree) LookupClass(id ScopeID, name string) (Stmt, bool) {
	for {
		s := t.Get(id)
		if st, ok := s.Classes[name]; ok {
			return st, true
		}
		if !s.HasPar {
			return nil, false
		}
		id = s.Parent
	}
}

// Ancestors returns the chain of scope ids from id up to (and including)
// the root, nearest first. The lifetime phase walks this to compute how
// long a reference taken in id may live.
func (t *ScopeTree) Ancestors(id ScopeID) []ScopeID {
	var out []ScopeID
	for {
		out = append(out, id)
		s := t.Get(id)
		if !s.HasPar {
			return out
		}
		id = s.Parent
	}
}

// Descendants returns id and every scope reachable from it through
// Children, breadth-first. The borrow checker uses this to tell a name
// that was declared somewhere in a function's body but isn't reachable
// from the current scope (a since-closed sibling block) apart from a name
// that was never declared in this function at all.
func (t *ScopeTree) Descendants(id ScopeID) []ScopeID {
	out := []ScopeID{id}
	for i := 0; i < len(out); i++ {
		out = append(out, t.Get(out[i]).Children...)
	}
	return out
}

// Encloses reports whether scope outer is id itself or a (possibly
// transitive) ancestor of id, i.e. whether a value owned by outer is
// guaranteed to outlive anything in id. This is the lexical-only lifetime
// check: a reference into outer may safely be held in id iff Encloses(outer,
// id).
func (t *ScopeTree) Encloses(outer, id ScopeID) bool {
	for _, a := range t.Ancestors(id) {
		if a == outer {
			return true
		}
	}
	return false
}
