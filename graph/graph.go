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

// Package graph implements a directed graph ADT, used for the driver's
// debug visualization of the scope tree (SPEC_FULL.md §C.3's
// --emit-scope-graph flag). The instantiation engine does not build a
// dependency graph with it.
//
// The Adjacency-map shape, AddEdge/AddVertex pair, and the Kahn's-algorithm
// TopologicalSort are carried over directly from the teacher's
// pgraph.Graph, generalized from a fixed resources.Res payload to any
// comparable, stringable node type via a type parameter.
package graph

// Node is the constraint any graph payload must satisfy: comparable so it
// can key the adjacency map directly (matching the teacher's *Vertex
// pointer-identity approach), and stringable so Graphviz/error messages
// have a label to print.
type Node interface {
	comparable
	String() string
}

// Graph is a directed graph over nodes of type N. The zero value is not
// ready to use; call New.
type Graph[N Node] struct {
	Name string

	// Adjacency maps a node to the set of nodes it points to, with the
	// edge label as the value (mirrors pgraph.Graph.Adjacency, with the
	// *Edge struct collapsed to its one field actually used downstream).
	Adjacency map[N]map[N]string
}

// New returns an empty, named graph.
func New[N Node](name string) *Graph[N] {
	return &Graph[N]{
		Name:      name,
		Adjacency: make(map[N]map[N]string),
	}
}

// AddVertex adds each of nodes to the graph if not already present.
func (g *Graph[N]) AddVertex(nodes ...N) {
	for _, n := range nodes {
		if _, exists := g.Adjacency[n]; !exists {
			g.Adjacency[n] = make(map[N]string)
		}
	}
}

// HasVertex reports whether n is present in the graph.
func (g *Graph[N]) HasVertex(n N) bool {
	_, exists := g.Adjacency[n]
	return exists
}

// AddEdge adds a directed edge from -> to, labeled label, adding both
// endpoints as vertices first if they aren't already present.
func (g *Graph[N]) AddEdge(from, to N, label string) {
	g.AddVertex(from, to)
	g.Adjacency[from][to] = label
}

// NumVertices returns the vertex count.
func (g *Graph[N]) NumVertices() int { return len(g.Adjacency) }

// NumEdges returns the total edge count.
func (g *Graph[N]) NumEdges() int {
	count := 0
	for n := range g.Adjacency {
		count += len(g.Adjacency[n])
	}
	return count
}

// Vertices returns every vertex in the graph, in unspecified order (the
// underlying map's iteration order, same caveat as pgraph.GetVertices).
func (g *Graph[N]) Vertices() []N {
	vertices := make([]N, 0, len(g.Adjacency))
	for n := range g.Adjacency {
		vertices = append(vertices, n)
	}
	return vertices
}

// OutgoingEdges returns the nodes n points directly to.
func (g *Graph[N]) OutgoingEdges(n N) []N {
	var out []N
	for to := range g.Adjacency[n] {
		out = append(out, to)
	}
	return out
}

// IncomingEdges returns the nodes that point directly to n.
func (g *Graph[N]) IncomingEdges(n N) []N {
	var in []N
	for from := range g.Adjacency {
		if _, ok := g.Adjacency[from][n]; ok {
			in = append(in, from)
		}
	}
	return in
}

// InDegree returns, for every vertex, the count of edges pointing to it.
func (g *Graph[N]) InDegree() map[N]int {
	result := make(map[N]int, len(g.Adjacency))
	for n := range g.Adjacency {
		result[n] = 0
	}
	for n := range g.Adjacency {
		for to := range g.Adjacency[n] {
			result[to]++
		}
	}
	return result
}

// TopologicalSort orders the graph's vertices so that every edge points
// from an earlier vertex to a later one, using Kahn's algorithm (same
// derivation as pgraph.Graph.TopologicalSort). ok is false when the graph
// has a cycle, the instantiation engine's signal to reject a template
// dependency that never bottoms out through a pointer/reference
// indirection.
func (g *Graph[N]) TopologicalSort() (result []N, ok bool) {
	var L []N
	var S []N
	remaining := make(map[N]int)

	for n, d := range g.InDegree() {
		if d == 0 {
			S = append(S, n)
		} else {
			remaining[n] = d
		}
	}

	for len(S) > 0 {
		last := len(S) - 1
		n := S[last]
		S = S[:last]
		L = append(L, n)
		for to := range g.Adjacency[n] {
			if remaining[to] > 0 {
				remaining[to]--
				if remaining[to] == 0 {
					S = append(S, to)
				}
			}
		}
	}

	for _, in := range remaining {
		if in > 0 {
			return nil, false // not a dag
		}
	}
	return L, true
}

// DFS returns a depth-first traversal of the graph starting at start,
// following edges in both directions (pgraph.Graph.DFS's behavior: it
// walks the whole connected component, not just the forward-reachable
// set, since it's used for partitioning the graph into independent
// pieces, not for dependency ordering).
func (g *Graph[N]) DFS(start N) []N {
	if !g.HasVertex(start) {
		return nil
	}
	var discovered []N
	seen := make(map[N]bool)
	stack := []N{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		discovered = append(discovered, n)
		stack = append(stack, g.OutgoingEdges(n)...)
		stack = append(stack, g.IncomingEdges(n)...)
	}
	return discovered
}
