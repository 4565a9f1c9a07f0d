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

// Package ast holds the Vex abstract syntax tree: scopes, symbols, and the
// Stmt/Expr node set that the parser (an external collaborator, see spec.md
// §1) produces and that the borrow checker, instantiation engine, and code
// generator all walk. The node method set is modeled directly on the
// teacher's lang/interfaces.Stmt/Expr, minus the reactive/FRP methods
// (Graph, Func, SetValue, Value) which have no place in an ahead-of-time
// compiler: Vex programs are compiled once and run natively, they are never
// evaluated as a live dataflow graph.
package ast

import (
	"fmt"

	"github.com/vexlang/vexc/types"
)

// Node is the common method set every AST node implements, corresponding to
// the teacher's shared Init/Interpolate/SetScope triple.
type Node interface {
	// Init validates the populated node and wires in ambient data (the
	// logger, debug flag) the way the teacher's Data does.
	Init(*Data) error

	// Pos returns the node's source span, used to build diagnostics.
	Pos() Span
}

// Stmt represents a statement: a let-binding, an assignment, a control-flow
// construct, or a declaration (struct/enum/trait/impl/extern block).
type Stmt interface {
	Node

	// SetScope binds the statement's lexical scope and propagates it to
	// children, exactly as the teacher's Stmt.SetScope does.
	SetScope(*Scope) error

	// Check runs whatever static analysis belongs to this statement kind
	// beyond type inference (e.g. exhaustiveness for match arms). Most
	// Stmt kinds have nothing extra to check and return nil.
	Check() error
}

// Expr represents an expression: a literal, a variable reference, a call, a
// binary/unary operation, a closure, an await, or a struct/enum literal.
//
// Unlike the teacher's Expr, there is no Func/SetValue/Value/Graph here:
// Vex expressions never execute inside the compiler, they are only
// type-checked and then lowered to the SSA-shaped IR in the codegen
// package.
type Expr interface {
	Node

	SetScope(*Scope) error

	// SetType binds the expression's inferred type. Returns an error if
	// a type was already bound and is incompatible (spec.md §4.2's
	// Equal-invariant solver calls this once a binding is resolved).
	SetType(*types.Type) error

	// Type returns the expression's type, or nil if not yet inferred.
	Type() *types.Type
}

// Span identifies a range in a single source file, used to annotate
// diagnostics (see the diag package). The parser is responsible for
// populating these; the ast package only carries them through.
type Span struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String renders a span as `file:line:col`, the form every diagnostic
// emitter (human and JSON) displays.
func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// Data provides ambient context to a node during Init, mirroring the
// teacher's interfaces.Data.
type Data struct {
	// Debug enables extra validation and verbose diagnostics.
	Debug bool

	// Logf is the logger threaded through every node, exactly as the
	// teacher threads Data.Logf through its AST.
	Logf func(format string, v ...interface{})
}
