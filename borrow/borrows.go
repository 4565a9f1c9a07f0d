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
)

// checkBorrows is phase 3: a binding may have either any number of live
// shared borrows, or exactly one live mutable borrow, never both at once
// (the classic aliasing-xor-mutability rule). A borrow taken within a
// block is live for the rest of that block and its children, and is
// retired by exitScope the instant that block finishes (spec.md §3's
// BorrowRecord lifecycle), so a borrow inside an `if`/`while`/`for` body
// never outlives its own braces.
func (c *Checker) checkBorrows(fn *ast.Function) error {
	c.scopeBorrows = make(map[ast.ScopeID][]borrowMark)
	return c.walkBlock(fn.Body, fn.Body.ScopeID, func(s ast.Stmt, scopeID ast.ScopeID) error {
		if call, ok := s.(*ast.StmtExpr); ok {
			if err := c.checkCallArgBorrows(call, scopeID, fn); err != nil {
				return err
			}
		}
		for _, e := range exprsIn(s) {
			unary, ok := e.(*ast.ExprUnary)
			if !ok {
				continue
			}
			if unary.Op != ast.OpRefOf && unary.Op != ast.OpRefOfMut {
				continue
			}
			sym, found := baseSymbol(c.Tree, scopeID, unary.Expr)
			if !found {
				if v, ok := unary.Expr.(*ast.ExprVar); ok && declaredAnywhereIn(c.Tree, fn.Body.ScopeID, v.Name) {
					d := diag.NewBorrow(diag.SubkindUseAfterScopeEnd, unary.Pos(),
						"cannot borrow %q: its scope has already ended", v.Name)
					if err := c.fail(d); err != nil {
						return err
					}
				}
				continue
			}
			if sym.State == ast.StateMoved {
				d := diag.NewBorrow(diag.SubkindUseAfterMove, unary.Pos(),
					"cannot borrow %q: value was moved", sym.Name).WithRelated(sym.MovedAt)
				if err := c.fail(d); err != nil {
					return err
				}
				continue
			}

			if unary.Op == ast.OpRefOfMut {
				if sym.MutBorrowed || sym.BorrowCount > 0 {
					d := diag.NewBorrow(diag.SubkindMutableBorrowWhileBorrowed, unary.Pos(),
						"cannot borrow %q as mutable: already borrowed", sym.Name)
					if err := c.fail(d); err != nil {
						return err
					}
					continue
				}
				if !sym.Mutable {
					d := diag.NewBorrow(diag.SubkindAssignToImmutable, unary.Pos(),
						"cannot borrow %q as mutable: binding is not declared `let!`", sym.Name)
					if err := c.fail(d); err != nil {
						return err
					}
					continue
				}
				sym.MutBorrowed = true
				c.scopeBorrows[scopeID] = append(c.scopeBorrows[scopeID], borrowMark{sym: sym, exclusive: true})
				continue
			}

			// OpRefOf: a shared borrow.
			if sym.MutBorrowed {
				d := diag.NewBorrow(diag.SubkindImmutableBorrowWhileMutableBorrowed, unary.Pos(),
					"cannot borrow %q as shared: already mutably borrowed", sym.Name)
				if err := c.fail(d); err != nil {
					return err
				}
				continue
			}
			sym.BorrowCount++
			c.scopeBorrows[scopeID] = append(c.scopeBorrows[scopeID], borrowMark{sym: sym, exclusive: false})
		}
		return nil
	})
}

// checkCallArgBorrows applies spec.md §4.1 phase 4's "passing &x as a
// function argument requires x be in scope at the call site" rule: a bare
// call statement whose argument list no longer resolves a borrowed name at
// all (the name belongs to a scope that has since closed, rather than one
// that was never declared) is SubkindUseAfterScopeEnd, not a silent
// no-op. Only the free-standing call-statement shape is checked here; a
// call nested inside a larger expression is reached through exprsIn's own
// extraction the same way the rest of this phase is.
func (c *Checker) checkCallArgBorrows(s *ast.StmtExpr, scopeID ast.ScopeID, fn *ast.Function) error {
	call, ok := s.Value.(*ast.ExprCall)
	if !ok {
		return nil
	}
	args := append([]ast.Expr{}, call.Args...)
	if call.Recv != nil {
		args = append(args, call.Recv)
	}
	for _, a := range args {
		unary, ok := a.(*ast.ExprUnary)
		if !ok || (unary.Op != ast.OpRefOf && unary.Op != ast.OpRefOfMut) {
			continue
		}
		v, ok := unary.Expr.(*ast.ExprVar)
		if !ok {
			continue
		}
		if _, found := baseSymbol(c.Tree, scopeID, v); found {
			continue
		}
		if declaredAnywhereIn(c.Tree, fn.Body.ScopeID, v.Name) {
			d := diag.NewBorrow(diag.SubkindUseAfterScopeEnd, unary.Pos(),
				"cannot pass %q by reference: its scope has already ended", v.Name)
			if err := c.fail(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// declaredAnywhereIn reports whether name is bound to a symbol somewhere
// in the subtree rooted at root, regardless of whether scopeID's own
// ancestor chain can currently see it. This is what lets checkBorrows tell
// a read of a since-closed-scope binding (UseAfterScopeEnd) apart from a
// name that was never declared in this function at all, which is name
// resolution's job, not the borrow checker's.
func declaredAnywhereIn(tree *ast.ScopeTree, root ast.ScopeID, name string) bool {
	for _, id := range tree.Descendants(root) {
		if _, ok := tree.Get(id).Symbols[name]; ok {
			return true
		}
	}
	return false
}
