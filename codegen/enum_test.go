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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

func TestLayoutEnumAssignsDeclarationOrderDiscriminants(t *testing.T) {
	def := &ast.EnumDef{
		Name: "Option",
		Variants: []ast.EnumVariantDef{
			{Name: "None"},
			{Name: "Some", Payload: []*types.Type{types.I32}},
		},
	}
	layout := LayoutEnum(def)
	require.Len(t, layout.Variants, 2)
	assert.Equal(t, 0, layout.Variants[0].Discriminant)
	assert.Equal(t, 1, layout.Variants[1].Discriminant)
	assert.Equal(t, 4, layout.PayloadMax)
}

func TestLayoutEnumWidestVariantWins(t *testing.T) {
	def := &ast.EnumDef{
		Name: "E",
		Variants: []ast.EnumVariantDef{
			{Name: "Small", Payload: []*types.Type{types.I8}},
			{Name: "Big", Payload: []*types.Type{types.I64, types.I64}},
		},
	}
	layout := LayoutEnum(def)
	assert.Equal(t, 16, layout.PayloadMax)
	assert.Equal(t, 8, layout.Align)
}

func TestSizeOfPrimitives(t *testing.T) {
	assert.Equal(t, 1, sizeOf(types.Bool))
	assert.Equal(t, 4, sizeOf(types.I32))
	assert.Equal(t, 8, sizeOf(types.F64))
	assert.Equal(t, 16, sizeOf(types.String)) // {ptr, len}
}

func TestFunctionTableRejectsConflictingSignatures(t *testing.T) {
	tbl := NewFunctionTable()
	block := &ast.ExternBlock{
		ABI: "C",
		Functions: []*ast.Function{
			{Name: "write", Params: []*ast.Param{{Type: types.I32}}, Ret: types.I32},
		},
	}
	require.NoError(t, tbl.Register(block))

	conflicting := &ast.ExternBlock{
		ABI: "C",
		Functions: []*ast.Function{
			{Name: "write", Params: []*ast.Param{{Type: types.I64}}, Ret: types.I32},
		},
	}
	require.Error(t, tbl.Register(conflicting))
}

func TestFunctionTableAllowsIdempotentReregistration(t *testing.T) {
	tbl := NewFunctionTable()
	block := &ast.ExternBlock{
		ABI:       "C",
		Functions: []*ast.Function{{Name: "exit", Params: nil, Ret: nil}},
	}
	require.NoError(t, tbl.Register(block))
	require.NoError(t, tbl.Register(block))

	entry, ok := tbl.Lookup("exit")
	require.True(t, ok)
	assert.Equal(t, "C", entry.ABI)
}
