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
	"os"

	"github.com/spf13/afero"

	cliUtil "github.com/vexlang/vexc/cli/util"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/driver"
)

// RunArgs compiles a source file and, on success, would hand the resulting
// object off to the C runtime library and the system linker to produce and
// execute a binary. Both of those are external collaborators (spec.md §1),
// so this subcommand runs the same pipeline CompileArgs does and reports the
// same pass/fail outcome; actually invoking the produced binary happens
// after a real backend is wired in.
type RunArgs struct {
	File string   `arg:"positional,required" help:"source file to compile and run"`
	Args []string `arg:"positional" help:"arguments passed to the compiled program"`
}

// Run executes the run subcommand.
func (obj *RunArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	result, diags := driver.CompileFile(nil, afero.NewOsFs(), obj.File, false)
	for _, d := range diags {
		if err := diag.EmitHuman(os.Stderr, d); err != nil {
			return true, err
		}
	}
	if diag.ExitCode(diags) != 0 {
		return true, cliUtil.Error("compilation failed, not running")
	}
	if result == nil {
		return true, nil
	}

	// NOTE: executing result.Functions requires the LLVM backend and the C
	// runtime to turn them into a running process; neither is part of this
	// build.
	return true, nil
}
