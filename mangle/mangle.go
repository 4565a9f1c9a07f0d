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

// Package mangle implements Vex's canonical link-time name mangling scheme
// (spec.md §4.2/§6): a generic function or struct method gets one mangled
// symbol per concrete instantiation, of the form `Base_T1_T2_..._Tn`, with
// an extra `_method` marker for methods. The scheme is deliberately a lot
// simpler than the Itanium C++ ABI's: Vex has no overloading and no
// templates-of-templates, so there is no need for the substitution-table
// compression real C++ manglers use — but the incremental
// buffer-plus-visitor shape of the mangler itself is grounded on exactly
// that kind of mangler.
package mangle

import (
	"strings"

	"github.com/vexlang/vexc/types"
)

// mangler incrementally builds a mangled name into a strings.Builder,
// mirroring the accumulate-into-a-buffer shape of a conventional ABI
// mangler.
type mangler struct {
	strings.Builder
}

// Function returns the canonical mangled name for a (possibly generic)
// free function, given its declared base name and the concrete type
// arguments it is being instantiated with. Called with a nil/empty args
// slice, it returns base unchanged: a non-generic function's mangled name
// is just its declared name.
func Function(base string, args []*types.Type) string {
	m := &mangler{}
	m.WriteString(base)
	m.typeArgs(args)
	return m.String()
}

// Method returns the canonical mangled name for a method defined in an
// `impl` block: the receiver type's own mangled name (which already
// encodes the receiver's own type arguments, if the receiver is itself a
// generic instantiation), an underscore, the method name, then the
// method's own type arguments if it is independently generic.
func Method(receiverMangled, methodName string, methodArgs []*types.Type) string {
	m := &mangler{}
	m.WriteString(receiverMangled)
	m.WriteString("_")
	m.WriteString(methodName)
	m.typeArgs(methodArgs)
	m.WriteString("_method")
	return m.String()
}

// Struct returns the canonical mangled name for a (possibly generic)
// struct or enum definition instantiated with the given type arguments.
// Structurally identical to Function: both follow the same
// Base_T1_..._Tn rule (spec.md §4.2).
func Struct(base string, args []*types.Type) string {
	return Function(base, args)
}

func (m *mangler) typeArgs(args []*types.Type) {
	for _, a := range args {
		m.WriteString("_")
		m.WriteString(typeToken(a))
	}
}

// typeToken renders a single type argument as a mangle-safe token, by
// recursing through the type's own structural fields (Kind, Name, Args,
// Elem, Elems) rather than string-replacing types.Type.String()'s human
// display form. String() wraps a generic's arguments in `<...>` separated
// by `, `, punctuation that a naive replacer cannot strip unambiguously
// once a generic argument is itself generic (`Vec<Map<str, i32>>`'s inner
// `<...>` and outer `<...>` both become the same replaced characters); a
// token built from the structured Args slice never has this problem,
// since each argument is mangled independently before being joined.
func typeToken(t *types.Type) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case types.KindNamed:
		return t.Name
	case types.KindGeneric:
		tok := t.Name
		for _, a := range t.Args {
			tok += "_" + typeToken(a)
		}
		return tok
	case types.KindArray:
		return "Arr" + typeToken(t.Elem)
	case types.KindTuple:
		tok := "Tup"
		for _, e := range t.Elems {
			tok += "_" + typeToken(e)
		}
		return tok
	case types.KindReference:
		tok := "Ref" + typeToken(t.Elem)
		if t.Mutable {
			tok += "Mut"
		}
		return tok
	case types.KindPointer:
		tok := "Ptr" + typeToken(t.Elem)
		if t.Mutable {
			tok += "Mut"
		}
		return tok
	case types.KindFunction:
		tok := "Fn"
		for _, p := range t.Params {
			tok += "_" + typeToken(p)
		}
		tok += "_Ret_" + typeToken(t.Ret)
		return tok
	case types.KindUnit:
		return "unit" // String() renders unit as "()", which is not identifier text
	default:
		// Primitive scalars (i32, u8, f64, bool, char, str, nil) are
		// already valid identifier text straight out of String().
		return t.String()
	}
}
