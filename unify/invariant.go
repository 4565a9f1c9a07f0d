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

// Package unify implements the bidirectional type inference engine spec.md
// §4.2 describes: a set of Invariant constraints gathered from the AST,
// fed to a fixed-point worklist solver that must leave every expression
// with a concrete type or fail, never silently defaulting an unresolved
// numeric literal's width.
//
// The constraint vocabulary and solver shape are adapted directly from the
// teacher's lang/unification package, built around the three constraint
// kinds spec.md §4.2 names: Equal (an expression pinned to a
// concrete type), MethodReceiver (a call's receiver expression must match
// the type a candidate method/trait impl declares), and Assignment (an
// expression's type must match another expression's, the way a `let`
// binding's value must match its annotation or a return value must match
// the function's declared return type). Equality, Conjunction, Exclusive
// and Any invariants complete the vocabulary the solver accepts.
package unify

import (
	"fmt"
	"strings"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// Invariant is one constraint gathered from the AST. It is the Vex
// analogue of the teacher's interfaces.Invariant.
type Invariant interface {
	fmt.Stringer
}

// EqualInvariant pins expr to a known, already-resolved type (e.g. a
// literal's type, or a generic parameter bound to a concrete argument at
// an instantiation call site).
type EqualInvariant struct {
	Expr ast.Expr
	Type *types.Type
}

func (i *EqualInvariant) String() string {
	return fmt.Sprintf("%p == %s", i.Expr, i.Type)
}

// EqualityInvariant expresses that two expressions must share the same
// type, without yet knowing what that type is (e.g. both arms of an if
// expression, or a variable reference and its declaration site).
type EqualityInvariant struct {
	Expr1, Expr2 ast.Expr
}

func (i *EqualityInvariant) String() string {
	return fmt.Sprintf("%p == %p", i.Expr1, i.Expr2)
}

// MethodReceiverInvariant expresses that Recv's type must be one for which
// a trait/contract implementation of Method exists with the given
// argument count; the instantiation engine resolves Candidates down to
// exactly one once Recv's type is known (spec.md §4.3's static dispatch
// requirement: ambiguity here is a MissingImpl diagnostic, never a vtable
// lookup deferred to runtime).
type MethodReceiverInvariant struct {
	Recv       ast.Expr
	Method     string
	Candidates []*types.Type // receiver types with a visible impl of Method
}

func (i *MethodReceiverInvariant) String() string {
	var names []string
	for _, c := range i.Candidates {
		names = append(names, c.String())
	}
	return fmt.Sprintf("%p.%s in {%s}", i.Recv, i.Method, strings.Join(names, ", "))
}

// AssignmentInvariant expresses that Value's type must be compatible with
// (assignable to) Target's type: a `let` binding's initializer against its
// annotation, a `return` expression against the function's declared return
// type, or a call argument against its parameter type.
type AssignmentInvariant struct {
	Target, Value ast.Expr
}

func (i *AssignmentInvariant) String() string {
	return fmt.Sprintf("%p := %p", i.Target, i.Value)
}

// ConjunctionInvariant groups a list of invariants which must all hold; a
// pure grouping construct with no constraint of its own.
type ConjunctionInvariant struct {
	Invariants []Invariant
}

func (i *ConjunctionInvariant) String() string {
	var a []string
	for _, x := range i.Invariants {
		a = append(a, x.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(a, ", "))
}

// ExclusiveInvariant represents a set of invariants of which exactly one
// must hold, used when a call could resolve against more than one trait
// impl. The solver tries the combinations of exclusive branches in order
// and keeps the first one consistent with the rest of the program; a
// second consistent combination is not reported.
type ExclusiveInvariant struct {
	Invariants []Invariant
}

func (i *ExclusiveInvariant) String() string {
	var a []string
	for _, x := range i.Invariants {
		a = append(a, x.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(a, ", "))
}

// AnyInvariant marks an expression that must receive some type but whose
// exact type is unconstrained by the rest of the program (e.g. an unused
// closure parameter that is never called). Without this, such an
// expression would be left out of the solution set and reported as
// UninferredType even though no ambiguity actually exists.
type AnyInvariant struct {
	Expr ast.Expr
	// Default, if non-nil, is the type used when nothing else constrains
	// Expr. Left nil for expressions that must fail with UninferredType
	// if truly unconstrained (e.g. a numeric literal: spec.md §4.2
	// forbids defaulting those).
	Default *types.Type
}

func (i *AnyInvariant) String() string {
	return fmt.Sprintf("%p == *", i.Expr)
}

// exclusivesProduct returns every combination obtainable by picking one
// Invariant from each ExclusiveInvariant in exclusives, preserving the
// teacher's lexicographic-odometer algorithm from
// unification.exclusivesProduct.
func exclusivesProduct(exclusives []*ExclusiveInvariant) [][]Invariant {
	if len(exclusives) == 0 {
		return nil
	}

	length := func(i int) int { return len(exclusives[i].Invariants) }

	nextIx := func(ix []int) {
		for i := len(ix) - 1; i >= 0; i-- {
			ix[i]++
			if i == 0 || ix[i] < length(i) {
				return
			}
			ix[i] = 0
		}
	}

	var results [][]Invariant
	for ix := make([]int, len(exclusives)); ix[0] < length(0); nextIx(ix) {
		var x []Invariant
		for j, k := range ix {
			x = append(x, exclusives[j].Invariants[k])
		}
		results = append(results, x)
	}
	return results
}

// Solution is the trivial EqualInvariant list the solver produces once it
// has converged: one entry per expression node that needed a type.
type Solution struct {
	Bindings []*EqualInvariant
}

// Apply writes every solved type back onto its expression via SetType,
// mirroring the teacher's Unify() driver loop.
func (s *Solution) Apply() error {
	for _, b := range s.Bindings {
		if err := b.Expr.SetType(b.Type); err != nil {
			return fmt.Errorf("error setting type for %s: %w", b.Type, err)
		}
	}
	return nil
}
