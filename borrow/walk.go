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

import "github.com/vexlang/vexc/ast"

// walkBlock visits every statement in block and its nested blocks
// depth-first, calling visit with each statement's own scope id. Each
// phase supplies a visit closure instead of re-implementing this descent,
// the way the teacher centralizes AST traversal helpers rather than
// re-walking from scratch in every pass.
func (c *Checker) walkBlock(block *ast.Block, scopeID ast.ScopeID, visit func(ast.Stmt, ast.ScopeID) error) error {
	if block == nil {
		return nil
	}
	for _, s := range block.Stmts {
		if err := visit(s, scopeID); err != nil {
			if c.Mode == ModeFirstFail {
				return err
			}
		}
		if err := c.descend(s, scopeID, visit); err != nil {
			if c.Mode == ModeFirstFail {
				return err
			}
		}
	}
	c.exitScope(scopeID)
	return nil
}

// exitScope retires every BorrowRecord and move marker scopeID originated,
// the moment walkBlock finishes visiting that scope's block (spec.md §3's
// BorrowRecord lifecycle, §4.1 phase 3's "on scope exit, all borrows
// originated in that scope are removed"). A scope that checkBorrows or
// checkMoves never opened anything in is a no-op here: ranging and
// deleting from a nil map are both safe zero-value operations in Go.
func (c *Checker) exitScope(scopeID ast.ScopeID) {
	for _, m := range c.scopeBorrows[scopeID] {
		if m.exclusive {
			m.sym.MutBorrowed = false
		} else {
			m.sym.BorrowCount--
		}
	}
	delete(c.scopeBorrows, scopeID)

	for _, sym := range c.scopeMoveMarks[scopeID] {
		c.moveBorrowDepth[sym]--
	}
	delete(c.scopeMoveMarks, scopeID)
}

// descend walks into the nested blocks a control-flow statement carries.
func (c *Checker) descend(s ast.Stmt, scopeID ast.ScopeID, visit func(ast.Stmt, ast.ScopeID) error) error {
	switch v := s.(type) {
	case *ast.StmtIf:
		if err := c.walkBlock(v.Then, v.Then.ScopeID, visit); err != nil {
			return err
		}
		for _, b := range v.ElifBlocks {
			if err := c.walkBlock(b, b.ScopeID, visit); err != nil {
				return err
			}
		}
		if v.Else != nil {
			if err := c.walkBlock(v.Else, v.Else.ScopeID, visit); err != nil {
				return err
			}
		}
	case *ast.StmtWhile:
		return c.walkBlock(v.Body, v.Body.ScopeID, visit)
	case *ast.StmtFor:
		return c.walkBlock(v.Body, v.Body.ScopeID, visit)
	}
	return nil
}

// exprsIn returns the direct value-position expressions a statement
// evaluates, for the moves/borrows phases to inspect. This intentionally
// does not recurse into sub-expressions of a binary/unary op: a move only
// ever happens at a "this whole expression is passed by value" boundary
// (a call argument, a let initializer, a return value), never inside an
// arithmetic expression, which always operates on Copy types or borrows.
func exprsIn(s ast.Stmt) []ast.Expr {
	switch v := s.(type) {
	case *ast.StmtLet:
		if v.Value != nil {
			return []ast.Expr{v.Value}
		}
	case *ast.StmtAssign:
		return []ast.Expr{v.Value}
	case *ast.StmtExpr:
		return exprsInExpr(v.Value)
	case *ast.StmtReturn:
		if v.Value != nil {
			return []ast.Expr{v.Value}
		}
	}
	return nil
}

// exprsInExpr extracts call-argument expressions from a bare expression
// statement, the common case of `f(x, y);`.
func exprsInExpr(e ast.Expr) []ast.Expr {
	if call, ok := e.(*ast.ExprCall); ok {
		return call.Args
	}
	return nil
}
