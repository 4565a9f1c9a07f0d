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
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/types"
)

// returnsUnit builds `fn name() { }`, a minimal concrete function whose
// body lowers to a single implicit-unit return.
func returnsUnit(name string) *ast.Function {
	return &ast.Function{Name: name, Ret: types.Unit, Body: &ast.Block{}}
}

func TestCompileUnitLowersEveryConcreteFunction(t *testing.T) {
	u := NewUnit()
	mod := &ast.Module{File: "main.vx", Decls: []ast.Stmt{returnsUnit("main")}}
	require.NoError(t, u.AddModule(mod))

	result, diags := CompileUnit(u, false)
	require.NotNil(t, result)
	assert.Empty(t, diagsOfSeverity(diags, diag.SeverityError))
	assert.Len(t, result.Functions, 1)
	assert.Equal(t, "main", result.Functions[0].Name)
}

func TestCompileUnitStopsBeforeCodegenOnUnresolvedGenericCall(t *testing.T) {
	u := NewUnit()
	caller := &ast.Function{
		Name: "main",
		Ret:  types.Unit,
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtExpr{Value: &ast.ExprCall{Callee: "identity"}},
			},
		},
	}
	require.NoError(t, u.AddModule(&ast.Module{
		File:  "main.vx",
		Decls: []ast.Stmt{caller, genericFn("identity")},
	}))

	result, diags := CompileUnit(u, false)
	assert.Nil(t, result)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.KindUninferredType, diags[0].Kind)
}

func TestCompileUnitSynthesizesSerializablePolicyImpl(t *testing.T) {
	u := NewUnit()
	sd := &ast.StructDef{
		Name:   "Point",
		Fields: []ast.FieldDef{{Name: "x", Type: types.I32}},
		Policies: []string{"Serializable"},
	}
	require.NoError(t, u.AddModule(&ast.Module{File: "point.vx", Decls: []ast.Stmt{sd, returnsUnit("main")}}))

	result, diags := CompileUnit(u, false)
	require.NotNil(t, result)
	assert.Empty(t, diagsOfSeverity(diags, diag.SeverityError))

	_, hasDisplay := u.Functions["Point.display"]
	_, hasSerialize := u.Functions["Point.serialize"]
	assert.True(t, hasDisplay && hasSerialize, "expected both synthesized methods to be registered")
}

func diagsOfSeverity(diags []*diag.Diagnostic, sev diag.Severity) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, d := range diags {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
