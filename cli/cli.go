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

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it dispatches to one of
// the compiler's subcommands (spec.md §6's CLI grammar).
package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	cliUtil "github.com/vexlang/vexc/cli/util"
	"github.com/vexlang/vexc/internal/errwrap"

	"github.com/alexflint/go-arg"
)

// CLI is the entry point for using vexc normally from the command line.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Copying == "" {
		return fmt.Errorf("program copyrights were removed, can't run")
	}

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:]) // XXX: args[0] needs to be dropped
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Printf("%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	// display the license
	if args.License {
		fmt.Printf("%s", data.Copying) // file comes with a trailing nl
		return nil
	}

	if ok, err := args.Run(ctx, data); err != nil {
		return err
	} else if ok { // did we activate one of the commands?
		return nil
	}

	// print help if no subcommands are set
	parser.WriteHelp(os.Stdout)

	return nil
}

// Args is the CLI parsing structure and type of the parsed result. This
// particular struct is the top-most one; each field below is one of the
// twelve subcommands spec.md §6 names.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	CompileCmd *CompileArgs `arg:"subcommand:compile" help:"compile a source file to an object file"`
	RunCmd     *RunArgs     `arg:"subcommand:run" help:"compile and immediately execute a source file"`
	CheckCmd   *CheckArgs   `arg:"subcommand:check" help:"run the front end and compile pipeline and report diagnostics, writing no output"`
	FormatCmd  *FormatArgs  `arg:"subcommand:format" help:"reformat a source file"`

	NewCmd    *NewArgs    `arg:"subcommand:new" help:"scaffold a new package"`
	InitCmd   *InitArgs   `arg:"subcommand:init" help:"initialize a package manifest in the current directory"`
	AddCmd    *AddArgs    `arg:"subcommand:add" help:"add a dependency to the manifest"`
	RemoveCmd *RemoveArgs `arg:"subcommand:remove" help:"remove a dependency from the manifest"`
	UpdateCmd *UpdateArgs `arg:"subcommand:update" help:"update manifest dependencies"`
	ListCmd   *ListArgs   `arg:"subcommand:list" help:"list manifest dependencies"`
	CleanCmd  *CleanArgs  `arg:"subcommand:clean" help:"remove cached build output"`
	TestCmd   *TestArgs   `arg:"subcommand:test" help:"compile the manifest's main file and report diagnostics"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if cmd := obj.CompileCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.RunCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.CheckCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.FormatCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.NewCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.InitCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.AddCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.RemoveCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.UpdateCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.ListCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.CleanCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}
	if cmd := obj.TestCmd; cmd != nil {
		return obj.run(ctx, data, cmd, cmd.Run)
	}

	// NOTE: we could return true, fmt.Errorf("...") if more than one did
	return false, nil // nobody activated
}

// run logs which subcommand got activated (looked up off the `arg:"subcommand:..."`
// struct tag the same way the parser itself reads it) before dispatching to
// it, so a debug run's (VEXC_DEBUG set) log output always says what
// actually ran.
func (obj *Args) run(ctx context.Context, data *cliUtil.Data, cmd interface{}, fn func(context.Context, *cliUtil.Data) (bool, error)) (bool, error) {
	if data.Flags.Debug {
		if name := cliUtil.LookupSubcommand(obj, cmd); name != "" {
			log.Printf("cli: dispatching to subcommand: %s", name)
		}
	}
	return fn(ctx, data)
}
