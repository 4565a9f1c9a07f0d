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
	"github.com/vexlang/vexc/types"
)

func freeFn(name string) *ast.Function {
	return &ast.Function{Name: name, Body: &ast.Block{}}
}

func genericFn(name string) *ast.Function {
	return &ast.Function{Name: name, Generics: []ast.GenericParam{{Name: "T"}}, Body: &ast.Block{}}
}

func TestAddModuleRoutesFunctionsByGenericity(t *testing.T) {
	u := NewUnit()
	mod := &ast.Module{
		File: "main.vx",
		Decls: []ast.Stmt{
			freeFn("main"),
			genericFn("identity"),
		},
	}
	require.NoError(t, u.AddModule(mod))

	_, ok := u.Functions["main"]
	assert.True(t, ok)
	_, ok = u.Generics["identity"]
	assert.True(t, ok)
	_, ok = u.Functions["identity"]
	assert.False(t, ok)
}

func TestAddModuleKeysMethodsByReceiverType(t *testing.T) {
	u := NewUnit()
	impl := &ast.ImplDef{
		For:     types.NewNamed("Box"),
		Methods: []*ast.Function{{Name: "unwrap", Body: &ast.Block{}}},
	}
	mod := &ast.Module{File: "box.vx", Decls: []ast.Stmt{impl}}
	require.NoError(t, u.AddModule(mod))

	_, ok := u.Functions["Box.unwrap"]
	assert.True(t, ok)
	assert.Len(t, u.Impls, 1)
}

func TestAddModuleRegistersExternFunctionsAsConcrete(t *testing.T) {
	u := NewUnit()
	block := &ast.ExternBlock{
		ABI:       "C",
		Functions: []*ast.Function{{Name: "puts", Extern: true, ABI: "C"}},
	}
	mod := &ast.Module{File: "ffi.vx", Decls: []ast.Stmt{block}}
	require.NoError(t, u.AddModule(mod))

	fn, ok := u.Functions["puts"]
	require.True(t, ok)
	assert.Nil(t, fn.Body)
	assert.Len(t, u.Externs, 1)
}

func TestAddModuleRejectsUnknownDeclarationKind(t *testing.T) {
	u := NewUnit()
	mod := &ast.Module{File: "bad.vx", Decls: []ast.Stmt{&ast.StmtBreak{}}}
	assert.Error(t, u.AddModule(mod))
}

func TestIsCopyReflectsDeclaredPolicyOnly(t *testing.T) {
	u := NewUnit()
	u.Structs["Point"] = &ast.StructDef{Name: "Point", Policies: []string{"Copy"}}
	u.Structs["Buffer"] = &ast.StructDef{Name: "Buffer"}

	assert.True(t, u.IsCopy("Point"))
	assert.False(t, u.IsCopy("Buffer"))
	assert.False(t, u.IsCopy("Unknown"))
}

func TestAllFunctionsCollectsFreeMethodsAndExternsOnce(t *testing.T) {
	u := NewUnit()
	main := freeFn("main")
	method := &ast.Function{Name: "unwrap", Body: &ast.Block{}}
	extern := &ast.Function{Name: "puts", Extern: true}
	mod := &ast.Module{
		File: "all.vx",
		Decls: []ast.Stmt{
			main,
			&ast.ImplDef{For: types.NewNamed("Box"), Methods: []*ast.Function{method}},
			&ast.ExternBlock{Functions: []*ast.Function{extern}},
		},
	}
	require.NoError(t, u.AddModule(mod))

	all := u.AllFunctions()
	assert.ElementsMatch(t, []*ast.Function{main, method, extern}, all)
}
