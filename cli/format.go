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

	cliUtil "github.com/vexlang/vexc/cli/util"
)

// FormatArgs would reformat a source file in place or print the reformatted
// text to stdout. The formatter itself is an external collaborator (spec.md
// §1), so this subcommand has nothing of its own to run; it exists only so
// `vexc format` is a recognized, helpfully-erroring subcommand rather than
// an unknown one.
type FormatArgs struct {
	File    string `arg:"positional,required" help:"source file to format"`
	InPlace bool   `arg:"-i" help:"rewrite the file in place instead of printing to stdout"`
}

// Run executes the format subcommand.
func (obj *FormatArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	return true, cliUtil.Error("no formatter is embedded in this build; formatting is handled by an external tool")
}
