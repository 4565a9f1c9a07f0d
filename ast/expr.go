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

	"github.com/vexlang/vexc/internal/errwrap"
	"github.com/vexlang/vexc/types"
)

// exprBase is embedded by every Expr implementation, the way the teacher
// embeds a small set of common fields (data, scope, typ) into each of its
// ExprCall/ExprVar/etc structs.
type exprBase struct {
	span  Span
	data  *Data
	scope *Scope
	typ   *types.Type
}

func (e *exprBase) Pos() Span { return e.span }

func (e *exprBase) Init(d *Data) error {
	if d == nil {
		return fmt.Errorf("nil Data")
	}
	e.data = d
	return nil
}

func (e *exprBase) SetScope(s *Scope) error {
	e.scope = s
	return nil
}

func (e *exprBase) SetType(t *types.Type) error {
	if e.typ != nil {
		if err := e.typ.Cmp(t); err != nil {
			return errwrap.Wrapf(err, "cannot retype expression")
		}
		return nil
	}
	e.typ = t
	return nil
}

func (e *exprBase) Type() *types.Type { return e.typ }

// LiteralKind distinguishes the scalar literal forms the lexer/parser
// produce.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitNil
)

// ExprLiteral is a scalar literal: `42`, `3.14`, `true`, `'a'`, `"hi"`, `nil`.
type ExprLiteral struct {
	exprBase
	Kind LiteralKind
	Text string // the literal's source text, preserved verbatim for diagnostics and for integer-suffix parsing (e.g. `42u8`)
}

var _ Expr = (*ExprLiteral)(nil)

// ExprVar is a reference to a named binding, resolved against the enclosing
// Scope by the driver's scope-resolution pass (driver/scope.go).
type ExprVar struct {
	exprBase
	Name string
	Sym  *Symbol // set by scope resolution once the scope lookup succeeds
}

var _ Expr = (*ExprVar)(nil)

// BinOp is a binary operator token.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// ExprBinary is a binary operator expression: `a + b`, `a == b`, `a && b`.
type ExprBinary struct {
	exprBase
	Op          BinOp
	Left, Right Expr
}

var _ Expr = (*ExprBinary)(nil)

// UnOp is a unary operator token.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpRefOf    // `&e`
	OpRefOfMut // `&e!`
	OpDeref    // `*e`
)

// ExprUnary is a unary operator expression, including reference-taking
// (`&e`, `&e!`) and pointer dereference (`*e`).
type ExprUnary struct {
	exprBase
	Op   UnOp
	Expr Expr
}

var _ Expr = (*ExprUnary)(nil)

// ExprCall is a function, method, or closure call: `f(a, b)`,
// `recv.method(a)`. When Recv is non-nil this is a method call and Callee
// is the unqualified method name; otherwise Callee is looked up as a
// free-standing function.
type ExprCall struct {
	exprBase
	Recv   Expr // non-nil for a method call
	Callee string
	Args   []Expr

	// TypeArgs carries explicit generic arguments (`f::<i32>(x)`), if
	// given; nil when the instantiation engine must infer them from Args.
	TypeArgs []*types.Type

	// Resolved is filled in by the instantiation engine (spec.md §4.2)
	// once it has picked the concrete, possibly-mangled target function.
	Resolved string
}

var _ Expr = (*ExprCall)(nil)

// ExprField is a field access: `e.field`.
type ExprField struct {
	exprBase
	Recv  Expr
	Field string
}

var _ Expr = (*ExprField)(nil)

// ExprIndex is an array index: `e[i]`.
type ExprIndex struct {
	exprBase
	Recv  Expr
	Index Expr
}

var _ Expr = (*ExprIndex)(nil)

// StructFieldInit is one `field: value` pair in a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// ExprStructLit is a struct literal: `Point{x: 1, y: 2}`.
type ExprStructLit struct {
	exprBase
	Name   string
	Fields []StructFieldInit
}

var _ Expr = (*ExprStructLit)(nil)

// ExprEnumLit is an enum variant construction: `Option::Some(x)`.
type ExprEnumLit struct {
	exprBase
	Enum    string
	Variant string
	Args    []Expr
}

var _ Expr = (*ExprEnumLit)(nil)

// ExprArrayLit is an array literal: `[1, 2, 3]`.
type ExprArrayLit struct {
	exprBase
	Elems []Expr
}

var _ Expr = (*ExprArrayLit)(nil)

// ExprTupleLit is a tuple literal: `(1, "a", true)`.
type ExprTupleLit struct {
	exprBase
	Elems []Expr
}

var _ Expr = (*ExprTupleLit)(nil)

// ExprClosure is an anonymous function literal. The borrow checker does not
// walk closure bodies; the code generator lowers every closure to a
// top-level function plus a captured environment struct, per SPEC_FULL.md's
// codegen section.
type ExprClosure struct {
	exprBase
	Params []*Param
	Ret    *types.Type // nil means inferred
	Body   *Block

	// Captures is the set of outer symbols the closure body references.
	// No pass in this repository fills it in; codegen.LowerClosure reads
	// it as set on the node.
	Captures []*Symbol
}

var _ Expr = (*ExprClosure)(nil)

// ExprAwait is an `await e` expression, legal only inside an `async fn`
// body. No pass checks that placement: the AwaitOutsideAsync diagnostic
// kind is never emitted, and the driver's codegen stage (Lowerer) has no
// case for ExprAwait, so it reports any await as an unsupported expression.
type ExprAwait struct {
	exprBase
	Inner Expr
}

var _ Expr = (*ExprAwait)(nil)

// ExprIf is an `if` *expression* (as opposed to an `if` statement): both
// branches must produce a value of the same type.
type ExprIf struct {
	exprBase
	Cond       Expr
	Then, Else *Block
}

var _ Expr = (*ExprIf)(nil)

// MatchArm is one `pattern => expr` arm of a `match` expression.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional `if cond` guard; nil when absent
	Body    Expr
}

// ExprMatch is a `match` expression. No pass in this repository checks
// exhaustiveness; the PatternNonExhaustive diagnostic kind is never
// emitted.
type ExprMatch struct {
	exprBase
	Subject Expr
	Arms    []MatchArm
}

var _ Expr = (*ExprMatch)(nil)

// PatternKind distinguishes the pattern forms match arms accept.
type PatternKind int

const (
	PatWildcard PatternKind = iota
	PatLiteral
	PatBind
	PatEnumVariant
	PatTuple
)

// Pattern is a match-arm pattern.
type Pattern struct {
	Kind    PatternKind
	Name    string    // PatBind, PatEnumVariant (variant name)
	Enum    string    // PatEnumVariant
	Literal *ExprLiteral
	Sub     []Pattern // PatEnumVariant args, PatTuple elements
	Span    Span
}
