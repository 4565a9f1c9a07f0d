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

// baseSymbol resolves an assignment/move/borrow target expression down to
// the Symbol it ultimately projects out of. A field access (`p.x`) or
// index (`arr[i]`) is tracked at the granularity of its base binding: this
// is the direct consequence of spec.md's "partial moves disallowed"
// decision (see DESIGN.md) — there is no per-field state to resolve to, so
// every projection answers to its root Symbol.
func baseSymbol(tree *ast.ScopeTree, scopeID ast.ScopeID, e ast.Expr) (*ast.Symbol, bool) {
	switch v := e.(type) {
	case *ast.ExprVar:
		if v.Sym != nil {
			return v.Sym, true
		}
		return tree.Lookup(scopeID, v.Name)
	case *ast.ExprField:
		return baseSymbol(tree, scopeID, v.Recv)
	case *ast.ExprIndex:
		return baseSymbol(tree, scopeID, v.Recv)
	case *ast.ExprUnary:
		if v.Op == ast.OpDeref {
			return baseSymbol(tree, scopeID, v.Expr)
		}
	}
	return nil, false
}

// checkImmutability is phase 1: every assignment target must resolve to a
// mutable binding (spec.md §4.1). Assigning through an immutable `let`
// binding, or through a shared (non-`!`) reference, is
// SubkindAssignToImmutable.
func (c *Checker) checkImmutability(fn *ast.Function) error {
	return c.walkBlock(fn.Body, fn.Body.ScopeID, func(s ast.Stmt, scopeID ast.ScopeID) error {
		assign, ok := s.(*ast.StmtAssign)
		if !ok {
			return nil
		}
		sym, found := baseSymbol(c.Tree, scopeID, assign.Target)
		if !found {
			return nil // unresolved name: reported by name resolution, not here
		}
		if !sym.Mutable {
			d := diag.NewBorrow(diag.SubkindAssignToImmutable, assign.Pos(),
				"cannot assign to %q: binding is not declared `let!`", sym.Name)
			return c.fail(d)
		}
		if deref, ok := assign.Target.(*ast.ExprUnary); ok && deref.Op == ast.OpDeref {
			if innerSym, ok := baseSymbol(c.Tree, scopeID, deref.Expr); ok && innerSym.Type != nil {
				if innerSym.Type.Kind == types.KindReference && !innerSym.Type.Mutable {
					d := diag.NewBorrow(diag.SubkindAssignToImmutable, assign.Pos(),
						"cannot assign through a shared reference %q; take `&%s!` instead", innerSym.Name, innerSym.Name)
					return c.fail(d)
				}
			}
		}
		return nil
	})
}

func (c *Checker) fail(d *diag.Diagnostic) error {
	if c.Mode == ModeFirstFail {
		return d
	}
	return c.record(d)
}
