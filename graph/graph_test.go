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

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strNode is the simplest possible Node: a plain string is both comparable
// and its own label.
type strNode string

func (s strNode) String() string { return string(s) }

func TestAddEdgeCreatesBothVertices(t *testing.T) {
	g := New[strNode]("g1")
	assert.Equal(t, 0, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())

	g.AddEdge("a", "b", "depends-on")
	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
	assert.True(t, g.HasVertex("a"))
	assert.True(t, g.HasVertex("b"))
}

func TestTopologicalSortOrdersDependencies(t *testing.T) {
	g := New[strNode]("g2")
	g.AddEdge("template<T>", "template<i32>", "instantiates")
	g.AddEdge("template<i32>", "caller", "instantiates")

	order, ok := g.TopologicalSort()
	require.True(t, ok)
	require.Len(t, order, 3)

	pos := make(map[strNode]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos[strNode("template<T>")], pos[strNode("template<i32>")])
	assert.Less(t, pos[strNode("template<i32>")], pos[strNode("caller")])
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := New[strNode]("g3")
	g.AddEdge("a", "b", "")
	g.AddEdge("b", "c", "")
	g.AddEdge("c", "a", "") // closes the cycle

	_, ok := g.TopologicalSort()
	assert.False(t, ok, "a cycle must never produce a valid instantiation order")
}

func TestDFSDiscoversConnectedComponent(t *testing.T) {
	g := New[strNode]("g4")
	g.AddEdge("a", "b", "")
	g.AddEdge("b", "c", "")
	g.AddVertex("isolated")

	discovered := g.DFS("a")
	assert.ElementsMatch(t, []strNode{"a", "b", "c"}, discovered)
}

func TestDFSFromUnknownVertexReturnsNil(t *testing.T) {
	g := New[strNode]("g5")
	assert.Nil(t, g.DFS("missing"))
}

func TestInDegreeCountsIncomingEdges(t *testing.T) {
	g := New[strNode]("g6")
	g.AddEdge("a", "c", "")
	g.AddEdge("b", "c", "")

	deg := g.InDegree()
	assert.Equal(t, 0, deg["a"])
	assert.Equal(t, 0, deg["b"])
	assert.Equal(t, 2, deg["c"])
}

func TestGraphvizIncludesEveryVertexAndEdge(t *testing.T) {
	g := New[strNode]("unit")
	g.AddEdge("a", "b", "uses")

	out := g.Graphviz()
	assert.Contains(t, out, "digraph unit {")
	assert.Contains(t, out, `label="a"`)
	assert.Contains(t, out, `label="b"`)
	assert.Contains(t, out, `label="uses"`)
}
