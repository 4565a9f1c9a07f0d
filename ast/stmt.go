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

package ast

import (
	"fmt"

	"github.com/vexlang/vexc/types"
)

// stmtBase is embedded by every Stmt implementation, mirroring exprBase.
type stmtBase struct {
	span  Span
	data  *Data
	scope *Scope
}

func (s *stmtBase) Pos() Span { return s.span }

func (s *stmtBase) Init(d *Data) error {
	if d == nil {
		return fmt.Errorf("nil Data")
	}
	s.data = d
	return nil
}

func (s *stmtBase) SetScope(sc *Scope) error {
	s.scope = sc
	return nil
}

func (s *stmtBase) Check() error { return nil }

// Block is a `{ ... }` sequence of statements with its own child Scope.
// Every construct that introduces a nested lexical scope (function bodies,
// if/match arms, loop bodies) holds a *Block.
type Block struct {
	ScopeID ScopeID
	Stmts   []Stmt
	// Tail is the trailing expression of a block used in expression
	// position (the last statement with no semicolon), or nil when the
	// block's value is Unit.
	Tail Expr
	Span Span
}

// Param is one function parameter.
type Param struct {
	Name    string
	Type    *types.Type
	Mutable bool
	Span    Span

	// Sym is the Symbol this parameter declares in the function's body
	// scope, filled in by scope resolution (see StmtLet.Sym).
	Sym *Symbol
}

// StmtLet is a `let`/`let!` binding: `let x = e;` or `let! x = e;`.
type StmtLet struct {
	stmtBase
	Name    string
	Mutable bool
	Type    *types.Type // explicit annotation, nil when to be inferred
	Value   Expr

	// Sym is the Symbol this binding declares, filled in by scope
	// resolution the same way ExprVar.Sym and ExprCall.Resolved cache
	// their own resolved semantic info directly on the AST node.
	Sym *Symbol
}

var _ Stmt = (*StmtLet)(nil)

// StmtAssign is `lhs = rhs;` where lhs must resolve to a mutable place
// (borrow checker phase 1, Immutability).
type StmtAssign struct {
	stmtBase
	Target Expr // ExprVar, ExprField, ExprIndex, or ExprUnary{Op: OpDeref}
	Value  Expr
}

var _ Stmt = (*StmtAssign)(nil)

// StmtExpr wraps an expression used for its side effect (e.g. a bare call).
type StmtExpr struct {
	stmtBase
	Value Expr
}

var _ Stmt = (*StmtExpr)(nil)

// StmtReturn is `return e;` or a bare `return;`.
type StmtReturn struct {
	stmtBase
	Value Expr // nil for a bare return
}

var _ Stmt = (*StmtReturn)(nil)

// StmtIf is an `if`/`elif`/`else` *statement* (no resulting value, unlike
// ExprIf).
type StmtIf struct {
	stmtBase
	Cond       Expr
	Then       *Block
	ElifConds  []Expr
	ElifBlocks []*Block
	Else       *Block // nil if absent
}

var _ Stmt = (*StmtIf)(nil)

// StmtWhile is a `while cond { ... }` loop.
type StmtWhile struct {
	stmtBase
	Cond Expr
	Body *Block
}

var _ Stmt = (*StmtWhile)(nil)

// StmtFor is a `for x in iter { ... }` loop.
type StmtFor struct {
	stmtBase
	Var  string
	Iter Expr
	Body *Block
}

var _ Stmt = (*StmtFor)(nil)

// StmtBreak and StmtContinue terminate or restart the nearest enclosing
// loop.
type StmtBreak struct{ stmtBase }
type StmtContinue struct{ stmtBase }

var (
	_ Stmt = (*StmtBreak)(nil)
	_ Stmt = (*StmtContinue)(nil)
)
