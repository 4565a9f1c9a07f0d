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

import "github.com/vexlang/vexc/ast"

// resolveScopes is the scope-resolution pass CompileUnit runs between the
// Instantiator and Borrow Checker stages. It mints a body ast.ScopeID for
// every concrete function, declares its parameters and `let`/`let!`
// bindings into u.Scopes, mints a child scope for every nested
// if/while/for block (mirroring exactly the nesting borrow.Checker's own
// walkBlock descends into), and resolves every ast.ExprVar.Sym against the
// scope it was read in. Without this pass the borrow checker's Symbol
// bookkeeping (State, BorrowCount, MutBorrowed) never has anything to
// mutate, since no other stage ever declares a binding into the scope
// tree it shares with every function it checks.
func resolveScopes(u *Unit) error {
	for _, fn := range u.AllFunctions() {
		if fn.Body == nil {
			continue // extern declaration: no body to resolve
		}
		bodyScope := u.Scopes.New(u.Scopes.Root())
		fn.Body.ScopeID = bodyScope
		for _, p := range fn.Params {
			sym := &ast.Symbol{Name: p.Name, Type: p.Type, Mutable: p.Mutable, DeclaredAt: p.Span}
			if err := u.Scopes.Declare(bodyScope, sym); err != nil {
				return err
			}
			p.Sym = sym
		}
		if err := resolveBlock(u.Scopes, fn.Body, bodyScope); err != nil {
			return err
		}
	}
	return nil
}

// resolveBlock declares every binding block.Stmts introduces directly into
// scopeID (block.ScopeID is assumed already set by the caller), minting a
// fresh child scope for each nested control-flow block it descends into.
func resolveBlock(tree *ast.ScopeTree, block *ast.Block, scopeID ast.ScopeID) error {
	if block == nil {
		return nil
	}
	for _, s := range block.Stmts {
		if err := resolveStmt(tree, s, scopeID); err != nil {
			return err
		}
	}
	resolveExprVars(tree, scopeID, block.Tail)
	return nil
}

func resolveStmt(tree *ast.ScopeTree, s ast.Stmt, scopeID ast.ScopeID) error {
	switch v := s.(type) {
	case *ast.StmtLet:
		resolveExprVars(tree, scopeID, v.Value)
		sym := &ast.Symbol{Name: v.Name, Type: v.Type, Mutable: v.Mutable, DeclaredAt: v.Pos()}
		if err := tree.Declare(scopeID, sym); err != nil {
			return err
		}
		v.Sym = sym
	case *ast.StmtAssign:
		resolveExprVars(tree, scopeID, v.Target)
		resolveExprVars(tree, scopeID, v.Value)
	case *ast.StmtExpr:
		resolveExprVars(tree, scopeID, v.Value)
	case *ast.StmtReturn:
		resolveExprVars(tree, scopeID, v.Value)
	case *ast.StmtIf:
		resolveExprVars(tree, scopeID, v.Cond)
		thenScope := tree.New(scopeID)
		v.Then.ScopeID = thenScope
		if err := resolveBlock(tree, v.Then, thenScope); err != nil {
			return err
		}
		for i, cond := range v.ElifConds {
			resolveExprVars(tree, scopeID, cond)
			elifScope := tree.New(scopeID)
			v.ElifBlocks[i].ScopeID = elifScope
			if err := resolveBlock(tree, v.ElifBlocks[i], elifScope); err != nil {
				return err
			}
		}
		if v.Else != nil {
			elseScope := tree.New(scopeID)
			v.Else.ScopeID = elseScope
			if err := resolveBlock(tree, v.Else, elseScope); err != nil {
				return err
			}
		}
	case *ast.StmtWhile:
		resolveExprVars(tree, scopeID, v.Cond)
		bodyScope := tree.New(scopeID)
		v.Body.ScopeID = bodyScope
		return resolveBlock(tree, v.Body, bodyScope)
	case *ast.StmtFor:
		resolveExprVars(tree, scopeID, v.Iter)
		bodyScope := tree.New(scopeID)
		v.Body.ScopeID = bodyScope
		// StmtFor has no dedicated field to cache the loop variable's
		// Symbol on (unlike Param.Sym/StmtLet.Sym); baseSymbol's tree.Lookup
		// fallback finds it by name instead.
		sym := &ast.Symbol{Name: v.Var, DeclaredAt: v.Pos()}
		if err := tree.Declare(bodyScope, sym); err != nil {
			return err
		}
		return resolveBlock(tree, v.Body, bodyScope)
	case *ast.StmtBreak, *ast.StmtContinue:
		// leaves: nothing to declare or resolve
	}
	return nil
}

// resolveExprVars walks e's subexpressions, resolving every ast.ExprVar's
// Sym against scopeID. It deliberately does not descend into ExprClosure,
// ExprMatch, or ExprIf-as-expression bodies: those introduce their own
// nested blocks, and borrow.Checker's own walk never checks inside them
// either (see borrow/walk.go's descend), so there is no consumer yet for
// scopes resolved there.
func resolveExprVars(tree *ast.ScopeTree, scopeID ast.ScopeID, e ast.Expr) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.ExprVar:
		if ex.Sym == nil {
			if sym, ok := tree.Lookup(scopeID, ex.Name); ok {
				ex.Sym = sym
			}
		}
	case *ast.ExprBinary:
		resolveExprVars(tree, scopeID, ex.Left)
		resolveExprVars(tree, scopeID, ex.Right)
	case *ast.ExprUnary:
		resolveExprVars(tree, scopeID, ex.Expr)
	case *ast.ExprCall:
		if ex.Recv != nil {
			resolveExprVars(tree, scopeID, ex.Recv)
		}
		for _, a := range ex.Args {
			resolveExprVars(tree, scopeID, a)
		}
	case *ast.ExprField:
		resolveExprVars(tree, scopeID, ex.Recv)
	case *ast.ExprIndex:
		resolveExprVars(tree, scopeID, ex.Recv)
		resolveExprVars(tree, scopeID, ex.Index)
	case *ast.ExprStructLit:
		for _, f := range ex.Fields {
			resolveExprVars(tree, scopeID, f.Value)
		}
	case *ast.ExprEnumLit:
		for _, a := range ex.Args {
			resolveExprVars(tree, scopeID, a)
		}
	case *ast.ExprArrayLit:
		for _, el := range ex.Elems {
			resolveExprVars(tree, scopeID, el)
		}
	case *ast.ExprTupleLit:
		for _, el := range ex.Elems {
			resolveExprVars(tree, scopeID, el)
		}
	case *ast.ExprAwait:
		resolveExprVars(tree, scopeID, ex.Inner)
	}
}
