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
	"github.com/vexlang/vexc/types"
)

// GenericParam is one entry of a `<T, U: SomeTrait>` parameter list.
type GenericParam struct {
	Name        string
	Constraints []string // trait/contract names this parameter must implement
}

// Function is a top-level or impl-block function definition (spec.md §3's
// Function data model entry). Modeled on the teacher's structs_function.go
// FuncStmt, generalized with generics, async, and extern linkage, all of
// which the teacher's dataflow-oriented function type has no notion of.
type Function struct {
	stmtBase

	Name     string
	Generics []GenericParam
	Params   []*Param
	Ret      *types.Type // nil means Unit

	Body *Block // nil for an extern "C" declaration (no body)

	Async  bool
	Extern bool   // declared inside an `extern "C" { ... }` block
	ABI    string // "C" when Extern

	// Receiver is non-nil when this Function is an impl-block method;
	// its Type names the struct/enum/trait being implemented for.
	Receiver *Param

	// Mangled is filled in once the mangler (see the mangle package) has
	// computed this function's canonical link-time name. For a generic
	// function this is the *template's* name; concrete instantiations
	// get their own Mangled name recorded on the instantiate.Record.
	Mangled string
}

var _ Stmt = (*Function)(nil)

// IsGeneric reports whether this function has its own generic parameters
// (as opposed to only inheriting them from an enclosing generic impl).
func (f *Function) IsGeneric() bool { return len(f.Generics) > 0 }

// FieldDef is one field of a struct.
type FieldDef struct {
	Name string
	Type *types.Type

	// Tag is the field's raw backtick-string metadata (spec.md §4.4), e.g.
	// `json:"full_name" rename_all:"snake_case"`. It is parsed the same
	// way the teacher parses its own `lang:"..."` struct tags: as a
	// reflect.StructTag, looked up key by key rather than hand-split.
	Tag string

	Span Span
}

// StructDef is a `struct Name<Generics> { fields } [with Policies]`
// declaration (spec.md §3's StructDef/EnumDef entry).
type StructDef struct {
	stmtBase

	Name     string
	Generics []GenericParam
	Fields   []FieldDef

	// Policies lists the `with Policy` names attached to this struct;
	// resolved against the policy package's registry during the policy
	// synthesis stage.
	Policies []string
}

var _ Stmt = (*StructDef)(nil)

// EnumVariantDef is one variant of an enum, optionally carrying
// positional payload types (a tagged union arm).
type EnumVariantDef struct {
	Name    string
	Payload []*types.Type // empty for a unit variant
	Span    Span
}

// EnumDef is an `enum Name<Generics> { variants } [with Policies]`
// declaration.
type EnumDef struct {
	stmtBase

	Name     string
	Generics []GenericParam
	Variants []EnumVariantDef
	Policies []string
}

var _ Stmt = (*EnumDef)(nil)

// TraitMethodSig is one method signature a trait/contract requires.
type TraitMethodSig struct {
	Name   string
	Params []*types.Type
	Ret    *types.Type
	Span   Span
}

// TraitDef is a `trait Name { method signatures }` declaration (spec.md's
// "Trait/Contract" data model entry). Vex requires every implementation to
// be resolved statically at the call site (inline-required dispatch, no
// vtables), which is why TraitDef carries no default-method bodies: a
// contract only ever declares shape, never behavior.
type TraitDef struct {
	stmtBase

	Name    string
	Methods []TraitMethodSig

	// Extends lists trait names this trait requires as a supertrait
	// (`trait B: A { ... }`). No pass checks that an `impl B for T` is
	// accompanied by an `impl A for T`.
	Extends []string
}

var _ Stmt = (*TraitDef)(nil)

// ImplDef is an `impl Trait for Type { methods }` block. A bare `impl Type {
// methods }` (an inherent impl, Trait == "") is also represented by this
// node.
type ImplDef struct {
	stmtBase

	Trait    string // "" for an inherent impl
	Generics []GenericParam
	For      *types.Type
	Methods  []*Function
}

var _ Stmt = (*ImplDef)(nil)

// ExternBlock is an `extern "C" { fn ... }` block: a set of function
// signatures with no Vex-side body, satisfied at link time (spec.md §6's
// extern "C" function table).
type ExternBlock struct {
	stmtBase

	ABI       string
	Functions []*Function
}

var _ Stmt = (*ExternBlock)(nil)

// ImportDecl is a module import. The driver accepts it and does nothing
// with it: no pass merges an imported package's declarations into the
// importing unit.
type ImportDecl struct {
	stmtBase

	Path  string
	Alias string // "" when none given
}

var _ Stmt = (*ImportDecl)(nil)

// Module is the root of one compiled source file: an ordered list of
// top-level declarations plus the scope they were registered into.
type Module struct {
	File    string
	ScopeID ScopeID
	Decls   []Stmt
}
