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

package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/instantiate"
	"github.com/vexlang/vexc/types"
)

func newEngine(u *Unit) *instantiate.Engine {
	return instantiate.NewEngine(u.Generics, u.Structs, u.Enums, nil)
}

func TestResolveCallOnConcreteFunctionUsesBaseNameUnchanged(t *testing.T) {
	u := NewUnit()
	require.NoError(t, u.AddModule(&ast.Module{File: "m.vx", Decls: []ast.Stmt{freeFn("add")}}))

	call := &ast.ExprCall{Callee: "add"}
	d := resolveCall(u, newEngine(u), call)

	assert.Nil(t, d)
	assert.Equal(t, "add", call.Resolved)
}

func TestResolveCallWithoutTypeArgsReportsUninferredType(t *testing.T) {
	u := NewUnit()
	require.NoError(t, u.AddModule(&ast.Module{File: "m.vx", Decls: []ast.Stmt{genericFn("identity")}}))

	call := &ast.ExprCall{Callee: "identity"}
	d := resolveCall(u, newEngine(u), call)

	require.NotNil(t, d)
	assert.Equal(t, "", call.Resolved)
}

func TestResolveCallInstantiatesGenericFreeFunction(t *testing.T) {
	u := NewUnit()
	tmpl := &ast.Function{
		Name:     "identity",
		Generics: []ast.GenericParam{{Name: "T"}},
		Params:   []*ast.Param{{Name: "x", Type: types.NewNamed("T")}},
		Ret:      types.NewNamed("T"),
		Body:     &ast.Block{},
	}
	require.NoError(t, u.AddModule(&ast.Module{File: "m.vx", Decls: []ast.Stmt{tmpl}}))

	call := &ast.ExprCall{Callee: "identity", TypeArgs: []*types.Type{types.I32}}
	d := resolveCall(u, newEngine(u), call)

	require.Nil(t, d)
	assert.NotEmpty(t, call.Resolved)
	assert.NotEqual(t, "identity", call.Resolved)
	_, ok := u.Functions[call.Resolved]
	assert.True(t, ok)
}

func TestResolveCallOnMethodReconstructsQualifiedKey(t *testing.T) {
	u := NewUnit()
	method := &ast.Function{Name: "unwrap", Body: &ast.Block{}}
	impl := &ast.ImplDef{For: types.NewNamed("Box"), Methods: []*ast.Function{method}}
	require.NoError(t, u.AddModule(&ast.Module{File: "box.vx", Decls: []ast.Stmt{impl}}))

	recv := &ast.ExprVar{Name: "b"}
	require.NoError(t, recv.SetType(types.NewNamed("Box")))
	call := &ast.ExprCall{Recv: recv, Callee: "unwrap"}

	d := resolveCall(u, newEngine(u), call)
	require.Nil(t, d)
	assert.Equal(t, "Box.unwrap", call.Resolved)
}

func TestResolveCallAlreadyResolvedIsLeftAlone(t *testing.T) {
	u := NewUnit()
	call := &ast.ExprCall{Callee: "add", Resolved: "add$already"}
	d := resolveCall(u, newEngine(u), call)
	assert.Nil(t, d)
	assert.Equal(t, "add$already", call.Resolved)
}

func TestCheckInstantiatedSignatureCatchesArgumentMismatch(t *testing.T) {
	rec := &instantiate.Record{
		Mangled: "identity$i32",
		Func: &ast.Function{
			Params: []*ast.Param{{Name: "x", Type: types.I32}},
		},
	}
	arg := &ast.ExprLiteral{Kind: ast.LitString, Text: `"oops"`}
	require.NoError(t, arg.SetType(types.String))
	call := &ast.ExprCall{Callee: "identity", Args: []ast.Expr{arg}}

	d := checkInstantiatedSignature(rec, call)
	require.NotNil(t, d)
}

func TestCheckInstantiatedSignatureAcceptsMatchingArgument(t *testing.T) {
	rec := &instantiate.Record{
		Mangled: "identity$i32",
		Func: &ast.Function{
			Params: []*ast.Param{{Name: "x", Type: types.I32}},
		},
	}
	arg := &ast.ExprLiteral{Kind: ast.LitInt, Text: "1"}
	require.NoError(t, arg.SetType(types.I32))
	call := &ast.ExprCall{Callee: "identity", Args: []ast.Expr{arg}}

	d := checkInstantiatedSignature(rec, call)
	assert.Nil(t, d)
}

func TestGenericArgsOfReturnsNilForNonGenericType(t *testing.T) {
	assert.Nil(t, genericArgsOf(types.I32))
	assert.Nil(t, genericArgsOf(nil))
}

func TestGenericArgsOfReturnsArgsForGenericType(t *testing.T) {
	boxed := types.NewGeneric("Box", types.I32)
	assert.Equal(t, []*types.Type{types.I32}, genericArgsOf(boxed))
}
