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

package codegen

import "github.com/vexlang/vexc/types"

// pointerSize is the target's native pointer width in bytes. A real
// backend selects this per target triple; this compiler core only ever
// needs a single consistent value to compute struct/enum layouts with.
const pointerSize = 8

// sizeOf returns t's size in bytes for layout purposes.
func sizeOf(t *types.Type) int {
	switch t.Kind {
	case types.KindUnit, types.KindNil:
		return 0
	case types.KindBool, types.KindChar:
		return 1
	case types.KindInt, types.KindFloat:
		if t.Width == 0 {
			return 0 // unresolved; the unifier must have rejected this before codegen
		}
		return t.Width / 8
	case types.KindString:
		return 2 * pointerSize // {ptr, len}
	case types.KindReference, types.KindPointer, types.KindFunction:
		return pointerSize
	case types.KindArray:
		return t.Len * sizeOf(t.Elem)
	case types.KindTuple:
		size := 0
		for _, e := range t.Elems {
			a := alignOf(e)
			size = alignUp(size, a)
			size += sizeOf(e)
		}
		return size
	case types.KindNamed, types.KindGeneric:
		return pointerSize // opaque from this package's point of view; the struct/enum's own layout table has the real size
	default:
		return 0
	}
}

// alignOf returns t's required alignment in bytes.
func alignOf(t *types.Type) int {
	switch t.Kind {
	case types.KindUnit, types.KindNil:
		return 1
	case types.KindBool, types.KindChar:
		return 1
	case types.KindInt, types.KindFloat:
		if t.Width == 0 {
			return 1
		}
		return t.Width / 8
	case types.KindString, types.KindReference, types.KindPointer, types.KindFunction:
		return pointerSize
	case types.KindArray:
		return alignOf(t.Elem)
	case types.KindTuple:
		a := 1
		for _, e := range t.Elems {
			if ea := alignOf(e); ea > a {
				a = ea
			}
		}
		return a
	default:
		return pointerSize
	}
}
