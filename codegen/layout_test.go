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

	"github.com/vexlang/vexc/types"
)

func TestAlignOfScalars(t *testing.T) {
	assert.Equal(t, 1, alignOf(types.Bool))
	assert.Equal(t, 4, alignOf(types.I32))
	assert.Equal(t, 8, alignOf(types.I64))
	assert.Equal(t, pointerSize, alignOf(types.String))
}

func TestAlignOfArrayMatchesElement(t *testing.T) {
	arr := &types.Type{Kind: types.KindArray, Elem: types.I64, Len: 3}
	assert.Equal(t, 8, alignOf(arr))
	assert.Equal(t, 24, sizeOf(arr))
}

func TestAlignOfTupleIsWidestMember(t *testing.T) {
	tup := types.NewTuple(types.I8, types.I64, types.Bool)
	assert.Equal(t, 8, alignOf(tup))
}

func TestSizeOfTuplePadsForAlignment(t *testing.T) {
	// {i8, i64}: i8 at offset 0, padding to 8, then i64 at offset 8 -> 16 total.
	tup := types.NewTuple(types.I8, types.I64)
	assert.Equal(t, 16, sizeOf(tup))
}
