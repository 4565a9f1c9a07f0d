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

package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

func findSolution(t *testing.T, sol *Solution, e ast.Expr) *types.Type {
	t.Helper()
	for _, b := range sol.Bindings {
		if b.Expr == e {
			return b.Type
		}
	}
	t.Fatalf("no solution for expression %p", e)
	return nil
}

func TestSolveTrivialEquals(t *testing.T) {
	a := &ast.ExprLiteral{Kind: ast.LitInt, Text: "1"}
	sol, err := Solve([]Invariant{&EqualInvariant{Expr: a, Type: types.I32}}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.I32, findSolution(t, sol, a))
}

func TestSolvePropagatesEquality(t *testing.T) {
	a := &ast.ExprVar{Name: "a"}
	b := &ast.ExprVar{Name: "b"}
	sol, err := Solve([]Invariant{
		&EqualInvariant{Expr: a, Type: types.Bool},
		&EqualityInvariant{Expr1: a, Expr2: b},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Bool, findSolution(t, sol, b))
}

func TestSolveAssignmentPropagatesBothWays(t *testing.T) {
	target := &ast.ExprVar{Name: "x"}
	value := &ast.ExprLiteral{Kind: ast.LitInt, Text: "5"}
	sol, err := Solve([]Invariant{
		&EqualInvariant{Expr: value, Type: types.I64},
		&AssignmentInvariant{Target: target, Value: value},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.I64, findSolution(t, sol, target))
}

func TestSolveDetectsMismatch(t *testing.T) {
	a := &ast.ExprVar{Name: "a"}
	_, err := Solve([]Invariant{
		&EqualInvariant{Expr: a, Type: types.Bool},
		&EqualInvariant{Expr: a, Type: types.I32},
	}, nil)
	require.Error(t, err)
}

func TestSolveRejectsUnresolvedNumericWidth(t *testing.T) {
	a := &ast.ExprLiteral{Kind: ast.LitInt, Text: "1"}
	bare := &types.Type{Kind: types.KindInt, Signed: true} // no Width set
	_, err := Solve([]Invariant{&EqualInvariant{Expr: a, Type: bare}}, nil)
	require.Error(t, err)
}

func TestSolveMethodReceiverSingleCandidate(t *testing.T) {
	recv := &ast.ExprVar{Name: "self"}
	inv := &MethodReceiverInvariant{
		Recv:       recv,
		Method:     "len",
		Candidates: []*types.Type{types.NewGeneric("Vec", types.I32)},
	}
	sol, err := Solve([]Invariant{inv}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Vec<i32>", findSolution(t, sol, recv).String())
}

func TestSolveMethodReceiverRejectsUnknownImpl(t *testing.T) {
	recv := &ast.ExprVar{Name: "self"}
	_, err := Solve([]Invariant{
		&EqualInvariant{Expr: recv, Type: types.Bool},
		&MethodReceiverInvariant{
			Recv:       recv,
			Method:     "push",
			Candidates: []*types.Type{types.NewGeneric("Vec", types.I32)},
		},
	}, nil)
	require.Error(t, err)
}

func TestSolveExclusiveInvariantPicksConsistentBranch(t *testing.T) {
	a := &ast.ExprVar{Name: "a"}
	sol, err := Solve([]Invariant{
		&EqualInvariant{Expr: a, Type: types.I32},
		&ExclusiveInvariant{Invariants: []Invariant{
			&EqualInvariant{Expr: a, Type: types.Bool},
			&EqualInvariant{Expr: a, Type: types.I32},
		}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.I32, findSolution(t, sol, a))
}

func TestSolveAnyInvariantDefault(t *testing.T) {
	a := &ast.ExprVar{Name: "a"}
	sol, err := Solve([]Invariant{
		&AnyInvariant{Expr: a, Default: types.Unit},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Unit, findSolution(t, sol, a))
}

func TestSolveUnconstrainedWithoutDefaultFails(t *testing.T) {
	a := &ast.ExprVar{Name: "a"}
	_, err := Solve([]Invariant{&AnyInvariant{Expr: a}}, nil)
	require.Error(t, err)
}
