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

// checkMoves is phase 2: every value-position use of a non-Copy binding
// moves it, after which any further use is SubkindUseAfterMove (the same
// underlying state transition covers what spec.md calls "double move":
// moving an already-Moved binding a second time is reported identically,
// since after the first move there is nothing left to distinguish a
// second move from any other use).
//
// This phase also rejects moving a binding that an earlier statement in
// the same function already took a reference to (SubkindMutationWhileBorrowed,
// spec.md §4.1 phase 2's "a move while borrowed is rejected"): borrow
// *liveness* past that point is the Borrows phase's job, but a move
// happening textually after a `&`/`&!` of the same binding is unsound
// regardless of where that borrow's lifetime eventually ends, so this
// phase tracks it locally against moveBorrowDepth, retired scope-by-scope
// by exitScope exactly like the Borrows phase's own bookkeeping, rather
// than depending on state the Borrows phase (which runs afterward) hasn't
// computed yet.
func (c *Checker) checkMoves(fn *ast.Function) error {
	c.scopeMoveMarks = make(map[ast.ScopeID][]*ast.Symbol)
	c.moveBorrowDepth = make(map[*ast.Symbol]int)
	return c.walkBlock(fn.Body, fn.Body.ScopeID, func(s ast.Stmt, scopeID ast.ScopeID) error {
		for _, e := range exprsIn(s) {
			if unary, ok := e.(*ast.ExprUnary); ok && (unary.Op == ast.OpRefOf || unary.Op == ast.OpRefOfMut) {
				if sym, found := baseSymbol(c.Tree, scopeID, unary.Expr); found {
					c.moveBorrowDepth[sym]++
					c.scopeMoveMarks[scopeID] = append(c.scopeMoveMarks[scopeID], sym)
				}
				continue
			}

			v, ok := e.(*ast.ExprVar)
			if !ok {
				continue // only a bare variable reference can be moved; e.f()/literals aren't moves of v itself
			}
			sym, found := baseSymbol(c.Tree, scopeID, v)
			if !found {
				continue
			}
			if sym.Type != nil && sym.Type.IsCopy(c.IsCopy) {
				continue // Copy types are duplicated, never moved
			}
			if sym.State == ast.StateMoved {
				d := diag.NewBorrow(diag.SubkindUseAfterMove, v.Pos(),
					"use of moved value %q", sym.Name).WithRelated(sym.MovedAt)
				if err := c.fail(d); err != nil {
					return err
				}
				continue
			}
			if c.moveBorrowDepth[sym] > 0 {
				d := diag.NewBorrow(diag.SubkindMutationWhileBorrowed, v.Pos(),
					"cannot move %q while it is borrowed", sym.Name)
				if err := c.fail(d); err != nil {
					return err
				}
				continue
			}
			sym.State = ast.StateMoved
			sym.MovedAt = v.Pos()
		}
		return nil
	})
}
