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

package driver

import (
	"github.com/spf13/afero"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/diag"
)

// Frontend turns source text into parsed modules. The lexer and parser
// themselves are external collaborators (spec.md §1: "lexer, parser ...
// whose contracts are named in §6"), so this package only defines the
// seam a real front end plugs into; a Syntax diagnostic a parser reports
// is meant to be re-raised here verbatim (spec.md §7's "Syntax (from
// parser, re-raised)" diagnostic kind), not regenerated by this package.
type Frontend interface {
	// ParseFile parses one source file into however many modules it
	// contributes to a compilation (ordinarily exactly one).
	ParseFile(path string, src []byte) ([]*ast.Module, error)
}

// ParseUnit reads path from fs, hands its bytes to fe, and flattens the
// resulting modules into a fresh Unit, stopping short of running any
// pipeline stage. `check --emit-scope-graph` and similar debug tooling
// need the Unit itself (for its ScopeTree), not just a compiled Result,
// so this is factored out of CompileFile rather than folded into it.
func ParseUnit(fe Frontend, fs afero.Fs, path string) (*Unit, []*diag.Diagnostic) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, []*diag.Diagnostic{diag.New(diag.KindSyntax, ast.Span{File: path}, "reading %q: %s", path, err.Error())}
	}

	if fe == nil {
		return nil, []*diag.Diagnostic{diag.New(diag.KindSyntax, ast.Span{File: path},
			"no front end configured: parsing %q requires a lexer/parser, which this build does not embed", path)}
	}

	modules, err := fe.ParseFile(path, src)
	if err != nil {
		return nil, []*diag.Diagnostic{diag.New(diag.KindSyntax, ast.Span{File: path}, "%s", err.Error())}
	}

	u := NewUnit()
	for _, mod := range modules {
		if err := u.AddModule(mod); err != nil {
			return nil, []*diag.Diagnostic{diag.New(diag.KindNameResolution, ast.Span{File: path}, "%s", err.Error())}
		}
	}
	return u, nil
}

// CompileFile reads path from fs, hands its bytes to fe, and runs the
// resulting modules through CompileUnit. It is the one place cmd/vexc's
// `compile`/`check`/`run` subcommands need to call to go from a file path
// on disk to a finished Result, without each subcommand re-deriving the
// read-parse-build-compile sequence.
func CompileFile(fe Frontend, fs afero.Fs, path string, allFindings bool) (*Result, []*diag.Diagnostic) {
	u, diags := ParseUnit(fe, fs, path)
	if u == nil {
		return nil, diags
	}
	return CompileUnit(u, allFindings)
}
