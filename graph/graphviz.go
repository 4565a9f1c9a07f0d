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
	"fmt"
	"os"
)

// Graphviz renders the graph in DOT format
// (https://en.wikipedia.org/wiki/DOT_%28graph_description_language%29),
// the same layout pgraph.Graph.Graphviz produces, generalized to use each
// node's String() as its label.
func (g *Graph[N]) Graphviz() string {
	out := fmt.Sprintf("digraph %s {\n", g.Name)
	out += fmt.Sprintf("\tlabel=%q;\n", g.Name)
	str := ""
	i := 0
	ids := make(map[N]string, len(g.Adjacency))
	for n := range g.Adjacency {
		ids[n] = fmt.Sprintf("n%d", i)
		i++
	}
	for n, id := range ids {
		out += fmt.Sprintf("\t%s [label=%q];\n", id, n.String())
		for to, label := range g.Adjacency[n] {
			str += fmt.Sprintf("\t%s -> %s [label=%q];\n", id, ids[to], label)
		}
	}
	out += str
	out += "}\n"
	return out
}

// WriteGraphviz writes the graph's DOT rendering to path, the
// --emit-scope-graph debug flag's implementation (SPEC_FULL.md §C.3). It
// stops short of the teacher's ExecGraphviz, which additionally shells out
// to the `dot` binary to rasterize a PNG: a compiler debug dump only needs
// to hand the user .dot text they can render themselves.
func (g *Graph[N]) WriteGraphviz(path string) error {
	return os.WriteFile(path, []byte(g.Graphviz()), 0o644)
}
