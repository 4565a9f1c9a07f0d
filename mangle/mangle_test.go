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

package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vexlang/vexc/types"
)

func TestFunctionNonGenericIsUnchanged(t *testing.T) {
	assert.Equal(t, "add", Function("add", nil))
}

func TestFunctionSingleArg(t *testing.T) {
	assert.Equal(t, "identity_i32", Function("identity", []*types.Type{types.I32}))
}

func TestFunctionMultipleArgs(t *testing.T) {
	got := Function("pair", []*types.Type{types.I32, types.Bool})
	assert.Equal(t, "pair_i32_bool", got)
}

func TestFunctionIsDeterministic(t *testing.T) {
	args := []*types.Type{types.NewGeneric("Vec", types.U8)}
	a := Function("wrap", args)
	b := Function("wrap", args)
	assert.Equal(t, a, b)
}

func TestFunctionIsIdempotentAcrossEquivalentTypeValues(t *testing.T) {
	a := Function("wrap", []*types.Type{types.NewArray(types.I32, 4)})
	b := Function("wrap", []*types.Type{types.NewArray(types.I32, 4)})
	assert.Equal(t, a, b)
}

func TestMethodSuffix(t *testing.T) {
	recv := Struct("Stack", []*types.Type{types.I32})
	got := Method(recv, "push", nil)
	assert.Equal(t, "Stack_i32_push_method", got)
}

func TestFunctionNestedGenericArg(t *testing.T) {
	inner := types.NewGeneric("Map", types.String, types.I32)
	outer := types.NewGeneric("Vec", inner)
	got := Function("wrap", []*types.Type{outer})
	assert.Equal(t, "wrap_Vec_Map_str_i32", got)
}

func TestDistinctTypeArgsProduceDistinctNames(t *testing.T) {
	a := Function("identity", []*types.Type{types.I32})
	b := Function("identity", []*types.Type{types.I64})
	assert.NotEqual(t, a, b)
}
