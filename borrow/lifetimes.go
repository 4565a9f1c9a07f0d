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

package borrow

import (
	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/types"
)

// checkLifetimes is phase 4: lexical-only lifetime checking (spec.md's
// Open Question, decided in DESIGN.md). A reference's lifetime is exactly
// the scope it was taken in; storing it in a `let` binding in an
// *outer*-or-equal scope is fine, storing it in a binding that will
// outlive the referent's own scope is SubkindDanglingReference. Returning
// a reference to a binding owned by the function body itself is the same
// unsoundness one level up (spec.md §8 scenario 4), reported separately as
// SubkindReturnLocalReference since the caller's frame, not some inner
// block, is what would be left holding a dangling pointer.
func (c *Checker) checkLifetimes(fn *ast.Function) error {
	return c.walkBlock(fn.Body, fn.Body.ScopeID, func(s ast.Stmt, scopeID ast.ScopeID) error {
		switch v := s.(type) {
		case *ast.StmtLet:
			return c.checkLetLifetime(v, scopeID)
		case *ast.StmtReturn:
			return c.checkReturnLifetime(v, scopeID)
		}
		return nil
	})
}

func (c *Checker) checkLetLifetime(let *ast.StmtLet, scopeID ast.ScopeID) error {
	if let.Value == nil {
		return nil
	}
	unary, ok := let.Value.(*ast.ExprUnary)
	if !ok || (unary.Op != ast.OpRefOf && unary.Op != ast.OpRefOfMut) {
		return nil
	}
	referentSym, found := baseSymbol(c.Tree, scopeID, unary.Expr)
	if !found {
		return nil
	}
	// The new binding `let r = &x` lives in scopeID; the referent x
	// lives in referentSym.Scope. The reference is only valid if
	// x's scope encloses (outlives) the scope the reference itself
	// will be held in.
	if !c.Tree.Encloses(referentSym.Scope, scopeID) {
		d := diag.NewBorrow(diag.SubkindDanglingReference, let.Pos(),
			"%q borrows %q, which does not live long enough", let.Name, referentSym.Name).
			WithRelated(referentSym.DeclaredAt)
		return c.fail(d)
	}
	return nil
}

// checkReturnLifetime rejects `return &x` when x is a plain owned binding
// of the function itself: the frame x lives in is gone the instant the
// function returns, so no caller can safely hold the result (spec.md §8
// scenario 4). A referent that is already reference-typed (a `&T`
// parameter, or a binding holding a reference passed in by the caller) is
// exempt: the caller, not this function's frame, owns what it ultimately
// points to, so handing that same reference back out is sound.
func (c *Checker) checkReturnLifetime(ret *ast.StmtReturn, scopeID ast.ScopeID) error {
	if ret.Value == nil {
		return nil
	}
	unary, ok := ret.Value.(*ast.ExprUnary)
	if !ok || (unary.Op != ast.OpRefOf && unary.Op != ast.OpRefOfMut) {
		return nil
	}
	referentSym, found := baseSymbol(c.Tree, scopeID, unary.Expr)
	if !found {
		return nil
	}
	if referentSym.Type != nil && referentSym.Type.Kind == types.KindReference {
		return nil
	}
	d := diag.NewBorrow(diag.SubkindReturnLocalReference, ret.Pos(),
		"cannot return a reference to %q, a local binding", referentSym.Name).
		WithRelated(referentSym.DeclaredAt)
	return c.fail(d)
}
