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

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sanity-io/litter"
	"github.com/spf13/afero"

	"github.com/vexlang/vexc/ast"
	cliUtil "github.com/vexlang/vexc/cli/util"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/driver"
	"github.com/vexlang/vexc/graph"
)

// litterOptions matches the teacher's own convention for pretty-printing Go
// values in a diff-friendly way (lang/parser/lexparse_test.go): skip package
// name noise, skip the private/zero fields that never matter for a human
// reading the dump, and never replace repeated pointers with back-references
// (DisablePointerReplacement), since a unit's symbol table is full of shared
// pointers that would otherwise all collapse to "&0".
var litterOptions = &litter.Options{
	StripPackageNames:         true,
	HidePrivateFields:         true,
	HideZeroValues:            true,
	DisablePointerReplacement: true,
}

// CheckArgs runs the front end and the full driver pipeline
// (driver.CompileUnit: policy synthesis, instantiation, borrow checking and
// codegen lowering), reports the diagnostics, and discards the lowered
// result without writing any output. It's the subcommand an editor/LSP-style
// tool would shell out to for feedback.
type CheckArgs struct {
	File           string `arg:"positional,required" help:"source file to check"`
	AllFindings    bool   `arg:"--all-findings" help:"report every borrow-check finding instead of stopping at the first"`
	JSON           bool   `arg:"--json" help:"emit diagnostics as a JSON array instead of human-readable text"`
	EmitScopeGraph string `arg:"--emit-scope-graph" help:"write the unit's scope tree as a Graphviz DOT file to this path"`
	DumpUnit       bool   `arg:"--dump-unit" help:"pretty-print the parsed unit's declarations to stdout for debugging"`
}

// Run executes the check subcommand.
func (obj *CheckArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	u, diags := driver.ParseUnit(nil, fs, obj.File)
	if u != nil {
		_, pipelineDiags := driver.CompileUnit(u, obj.AllFindings)
		diags = append(diags, pipelineDiags...)
	}

	if err := emitDiagnostics(obj.JSON, diags); err != nil {
		return true, err
	}

	if u != nil && obj.EmitScopeGraph != "" {
		if err := writeScopeGraph(u.Scopes, obj.EmitScopeGraph); err != nil {
			return true, err
		}
	}

	if u != nil && obj.DumpUnit {
		fmt.Println(litterOptions.Sdump(u))
	}

	if diag.ExitCode(diags) != 0 {
		return true, cliUtil.Error("check failed")
	}
	return true, nil
}

// scopeNode wraps an ast.ScopeID so it satisfies graph.Node, which needs a
// String method; ScopeID itself is a bare int with no method set of its own.
type scopeNode ast.ScopeID

func (n scopeNode) String() string { return "scope" + strconv.Itoa(int(n)) }

// writeScopeGraph walks tree from its root and renders every parent/child
// link as a graph edge, the debug-tooling companion to `check
// --emit-scope-graph` spec.md's design notes describe. It walks
// Scope.Children recursively starting from Root().
func writeScopeGraph(tree *ast.ScopeTree, path string) error {
	if tree == nil {
		return fmt.Errorf("no scope tree available to graph")
	}
	g := graph.New[scopeNode]("scopes")

	var walk func(id ast.ScopeID)
	walk = func(id ast.ScopeID) {
		scope := tree.Get(id)
		if scope == nil {
			return
		}
		g.AddVertex(scopeNode(id))
		for _, child := range scope.Children {
			g.AddVertex(scopeNode(child))
			g.AddEdge(scopeNode(id), scopeNode(child), "")
			walk(child)
		}
	}
	walk(tree.Root())

	return g.WriteGraphviz(path)
}
