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

// Command vexc is the compiler's command line front end. It assembles the
// compile-time Program/Version/Copying strings, reads VEXC_DEBUG into the
// debug flag, prints the startup banner via cliUtil.Hello, and hands off to
// the cli package, which does the actual argument parsing and subcommand
// dispatch.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vexlang/vexc/cli"
	cliUtil "github.com/vexlang/vexc/cli/util"
)

// these get set at compile time with -ldflags
var (
	program string
	version string
)

const copying = `This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
`

const tagline = "a systems language compiler"

func main() {
	prog := cliUtil.SafeProgram(program)
	if prog == "" {
		prog = "vexc"
	}
	ver := version
	if ver == "" {
		ver = "unknown"
	}

	flags := cliUtil.Flags{
		Debug: os.Getenv("VEXC_DEBUG") != "",
	}
	cliUtil.Hello(prog, ver, flags)

	data := &cliUtil.Data{
		Program: prog,
		Version: ver,
		Copying: copying,
		Tagline: tagline,
		Flags:   flags,
		Args:    os.Args,
	}

	ctx := context.Background()
	if err := cli.CLI(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err.Error())
		os.Exit(1)
	}
}
