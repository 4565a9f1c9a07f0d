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

import (
	"github.com/vexlang/vexc/ast"
)

// DiscriminantWidth is the tagged-enum discriminant's bit width (spec.md
// §4.5: "{ i8 discriminant, union-of-payloads }").
const DiscriminantWidth = 8

// EnumLayout is the computed memory shape of one enum: a discriminant plus
// the widest payload, aligned to the widest payload's own alignment.
type EnumLayout struct {
	Name       string
	Variants   []VariantLayout
	PayloadMax int // bytes, widest variant's payload
	Align      int // bytes
}

// VariantLayout is one variant's assigned discriminant value and its
// payload's field offsets.
type VariantLayout struct {
	Name          string
	Discriminant  int
	PayloadFields []int // byte offset of each positional payload field
}

// LayoutEnum assigns variant indices in declaration order starting from 0
// (spec.md §4.5's default; a future fixed-discriminant declaration syntax
// would override Discriminant per variant here) and computes each variant's
// payload size using sizeOf/alignOf.
func LayoutEnum(def *ast.EnumDef) *EnumLayout {
	layout := &EnumLayout{Name: def.Name}
	maxPayload := 0
	maxAlign := 1
	for i, v := range def.Variants {
		offsets := make([]int, len(v.Payload))
		offset := 0
		variantAlign := 1
		for j, t := range v.Payload {
			a := alignOf(t)
			if a > variantAlign {
				variantAlign = a
			}
			offset = alignUp(offset, a)
			offsets[j] = offset
			offset += sizeOf(t)
		}
		if offset > maxPayload {
			maxPayload = offset
		}
		if variantAlign > maxAlign {
			maxAlign = variantAlign
		}
		layout.Variants = append(layout.Variants, VariantLayout{
			Name:          v.Name,
			Discriminant:  i,
			PayloadFields: offsets,
		})
	}
	layout.PayloadMax = maxPayload
	layout.Align = maxAlign
	return layout
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}
