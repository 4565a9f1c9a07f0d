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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/diag"
)

type stubFrontend struct {
	modules []*ast.Module
	err     error
}

func (f *stubFrontend) ParseFile(path string, src []byte) ([]*ast.Module, error) {
	return f.modules, f.err
}

func TestCompileFileReportsSyntaxDiagnosticOnMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	result, diags := CompileFile(&stubFrontend{}, fs, "missing.vx", false)
	assert.Nil(t, result)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.KindSyntax, diags[0].Kind)
}

func TestCompileFileReportsSyntaxDiagnosticWithoutFrontend(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "main.vx", []byte("fn main() {}"), 0o644))

	result, diags := CompileFile(nil, fs, "main.vx", false)
	assert.Nil(t, result)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.KindSyntax, diags[0].Kind)
}

func TestCompileFileRunsParsedModulesThroughCompileUnit(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "main.vx", []byte("fn main() {}"), 0o644))

	fe := &stubFrontend{modules: []*ast.Module{{
		File:  "main.vx",
		Decls: []ast.Stmt{returnsUnit("main")},
	}}}

	result, diags := CompileFile(fe, fs, "main.vx", false)
	require.NotNil(t, result)
	assert.Empty(t, diagsOfSeverity(diags, diag.SeverityError))
	assert.Len(t, result.Functions, 1)
}
