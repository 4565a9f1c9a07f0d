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

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusStringsMatchContract(t *testing.T) {
	assert.Equal(t, "Running", StatusRunning.String())
	assert.Equal(t, "Yielded", StatusYielded.String())
	assert.Equal(t, "Done", StatusDone.String())
	assert.Equal(t, Status(0), StatusRunning)
	assert.Equal(t, Status(1), StatusYielded)
	assert.Equal(t, Status(2), StatusDone)
}

func TestLookupFindsRuntimeAndContainerFunctions(t *testing.T) {
	fn, ok := Lookup("runtime_spawn_global")
	require.True(t, ok)
	assert.Contains(t, fn.Signature, "runtime_spawn_global")

	fn, ok = Lookup("vex_vec_push")
	require.True(t, ok)
	assert.Contains(t, fn.Signature, "Vec*")
}

func TestLookupMissesUnknownName(t *testing.T) {
	_, ok := Lookup("not_a_real_symbol")
	assert.False(t, ok)
}
