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

// TestCompileUnitCatchesAssignToImmutableLet is the end-to-end regression
// test for the scope-resolution pass: without it, no pass ever declares
// `x` into the scope tree or resolves its ExprVar uses, so the borrow
// checker silently finds nothing to check and this program wrongly
// compiles clean.
//
//	fn main(): i32 {
//	    let x = 1;
//	    x = 2;
//	    return x;
//	}
func TestCompileUnitCatchesAssignToImmutableLet(t *testing.T) {
	u := NewUnit()
	fn := &ast.Function{
		Name: "main",
		Ret:  types.I32,
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtLet{Name: "x", Type: types.I32, Value: &ast.ExprLiteral{Kind: ast.LitInt, Text: "1"}},
				&ast.StmtAssign{Target: &ast.ExprVar{Name: "x"}, Value: &ast.ExprLiteral{Kind: ast.LitInt, Text: "2"}},
				&ast.StmtReturn{Value: &ast.ExprVar{Name: "x"}},
			},
		},
	}
	require.NoError(t, u.AddModule(&ast.Module{File: "main.vx", Decls: []ast.Stmt{fn}}))

	result, diags := CompileUnit(u, false)
	assert.Nil(t, result)
	errs := diagsOfSeverity(diags, diag.SeverityError)
	require.NotEmpty(t, errs)
	assert.Equal(t, diag.KindBorrowCheck, errs[0].Kind)
	assert.Equal(t, diag.SubkindAssignToImmutable, errs[0].Subkind)
}

// TestCompileUnitAllowsAssignToLetBang is the companion positive case: the
// same shape, but with `let!`, must compile all the way through codegen.
func TestCompileUnitAllowsAssignToLetBang(t *testing.T) {
	u := NewUnit()
	fn := &ast.Function{
		Name: "main",
		Ret:  types.I32,
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtLet{Name: "x", Mutable: true, Type: types.I32, Value: &ast.ExprLiteral{Kind: ast.LitInt, Text: "1"}},
				&ast.StmtAssign{Target: &ast.ExprVar{Name: "x"}, Value: &ast.ExprLiteral{Kind: ast.LitInt, Text: "2"}},
				&ast.StmtReturn{Value: &ast.ExprVar{Name: "x"}},
			},
		},
	}
	require.NoError(t, u.AddModule(&ast.Module{File: "main.vx", Decls: []ast.Stmt{fn}}))

	result, diags := CompileUnit(u, false)
	require.NotNil(t, result)
	assert.Empty(t, diagsOfSeverity(diags, diag.SeverityError))
}

// TestCompileUnitCatchesUseAfterMoveOfParameter exercises parameter
// resolution specifically: `w` is never declared by a `let`, only by the
// function's own Params, so this also regression-tests that resolveScopes
// declares parameters, not just local bindings.
//
//	fn consume(w: Widget) {
//	    let a = w;
//	    let b = w;
//	}
func TestCompileUnitCatchesUseAfterMoveOfParameter(t *testing.T) {
	u := NewUnit()
	widget := types.NewNamed("Widget")
	fn := &ast.Function{
		Name:   "consume",
		Ret:    types.Unit,
		Params: []*ast.Param{{Name: "w", Type: widget}},
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtLet{Name: "a", Value: &ast.ExprVar{Name: "w"}},
				&ast.StmtLet{Name: "b", Value: &ast.ExprVar{Name: "w"}},
			},
		},
	}
	require.NoError(t, u.AddModule(&ast.Module{File: "main.vx", Decls: []ast.Stmt{fn}}))

	result, diags := CompileUnit(u, false)
	assert.Nil(t, result)
	errs := diagsOfSeverity(diags, diag.SeverityError)
	require.NotEmpty(t, errs)
	assert.Equal(t, diag.SubkindUseAfterMove, errs[0].Subkind)
}
