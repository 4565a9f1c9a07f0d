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

// Package driver orchestrates the compiler's six-stage pipeline (spec.md
// §2): it owns the aggregate Unit a set of parsed modules assembles into,
// walks it to resolve generic call sites before codegen ever runs, drives
// the borrow checker and policy synthesizer, and hands the result to
// codegen. Modeled on the teacher's mgmtmain.Main: one struct per
// compilation, holding the tables every stage reads and writes, instead of
// threading a dozen loose parameters through free functions.
package driver

import (
	"fmt"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/policy"
)

// Unit is one compilation unit: every declaration reachable from a single
// `compile`/`check`/`run` invocation's entry module, flattened into
// lookup-by-name tables. No ast.Package type exists upstream of this
// package, so Unit is where that aggregate first takes shape, the same way
// mgmtmain.Main is the first place mgmt's CLI-level state gets assembled
// into one struct.
type Unit struct {
	Scopes *ast.ScopeTree

	// Functions holds every concrete (non-generic) function and method,
	// keyed by its declared name for a free function or "Type.method"
	// for an impl method. The instantiation engine never looks in here.
	// Codegen lowers only the entries AllFunctions returns: instantiated
	// records and policy-synthesized methods added here later are not
	// lowered.
	Functions map[string]*ast.Function

	// Generics holds every function/method template that still has its
	// own generic parameters, the table the instantiate.Engine templates
	// off of. A concrete Record produced from one of these is folded
	// back into Functions once instantiated (see resolveInstantiations).
	Generics map[string]*ast.Function

	Structs map[string]*ast.StructDef
	Enums   map[string]*ast.EnumDef

	Externs []*ast.ExternBlock
	Impls   []*ast.ImplDef
	Traits  map[string]*ast.TraitDef

	Policies *policy.Registry

	Modules []*ast.Module
}

// NewUnit returns an empty Unit with its lookup tables and a fresh scope
// tree ready to receive modules.
func NewUnit() *Unit {
	return &Unit{
		Scopes:    ast.NewScopeTree(),
		Functions: make(map[string]*ast.Function),
		Generics:  make(map[string]*ast.Function),
		Structs:   make(map[string]*ast.StructDef),
		Enums:     make(map[string]*ast.EnumDef),
		Traits:    make(map[string]*ast.TraitDef),
		Policies:  policy.NewRegistry(),
	}
}

// implKey is the lookup key a method is registered under: the receiver
// type's declared name, a dot, and the method's own name. Mangling (a
// separate, link-time-name concern) is computed later by the mangle
// package; this key only needs to be unique within one Unit.
func implKey(forType, method string) string {
	return fmt.Sprintf("%s.%s", forType, method)
}

// AddModule flattens mod's top-level declarations into the unit's lookup
// tables. Declarations are routed by kind and, for Function, by whether the
// function still carries its own generic parameters.
func (u *Unit) AddModule(mod *ast.Module) error {
	u.Modules = append(u.Modules, mod)
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Function:
			u.addFunction(d.Name, d)
		case *ast.StructDef:
			u.Structs[d.Name] = d
		case *ast.EnumDef:
			u.Enums[d.Name] = d
		case *ast.TraitDef:
			u.Traits[d.Name] = d
		case *ast.ExternBlock:
			u.Externs = append(u.Externs, d)
			for _, fn := range d.Functions {
				u.Functions[fn.Name] = fn // extern declarations have no body and are never generic
			}
		case *ast.ImplDef:
			u.Impls = append(u.Impls, d)
			forName := ""
			if d.For != nil {
				forName = d.For.Name
			}
			for _, m := range d.Methods {
				u.addFunction(implKey(forName, m.Name), m)
			}
		case *ast.ImportDecl:
			// Accepted and ignored: no pass merges imported
			// declarations into the unit.
		default:
			return fmt.Errorf("driver: unit: unsupported top-level declaration %T", decl)
		}
	}
	return nil
}

func (u *Unit) addFunction(name string, fn *ast.Function) {
	if fn.IsGeneric() {
		u.Generics[name] = fn
		return
	}
	u.Functions[name] = fn
}

// IsCopy reports whether name was declared `with Copy` (spec.md's Open
// Question decision: Copy is never automatic, only a declared policy can
// grant it). Wired straight into borrow.NewChecker's IsCopy callback.
func (u *Unit) IsCopy(name string) bool {
	if sd, ok := u.Structs[name]; ok {
		return hasPolicy(sd.Policies, "Copy")
	}
	if ed, ok := u.Enums[name]; ok {
		return hasPolicy(ed.Policies, "Copy")
	}
	return false
}

func hasPolicy(policies []string, name string) bool {
	for _, p := range policies {
		if p == name {
			return true
		}
	}
	return false
}

// AllFunctions returns the concrete functions and methods declared in the
// unit's modules (top-level functions, non-generic impl methods and extern
// functions), in a stable order (declaration order within each module,
// modules in the order they were added) so codegen output and test fixtures
// don't depend on Go's map iteration order. Functions added to u.Functions
// after AddModule (instantiated records, policy-synthesized methods) are not
// included.
func (u *Unit) AllFunctions() []*ast.Function {
	var out []*ast.Function
	seen := make(map[*ast.Function]bool)
	for _, mod := range u.Modules {
		for _, decl := range mod.Decls {
			switch d := decl.(type) {
			case *ast.Function:
				if f, ok := u.Functions[d.Name]; ok && f == d && !seen[f] {
					out = append(out, f)
					seen[f] = true
				}
			case *ast.ImplDef:
				for _, m := range d.Methods {
					if !m.IsGeneric() && !seen[m] {
						out = append(out, m)
						seen[m] = true
					}
				}
			case *ast.ExternBlock:
				for _, fn := range d.Functions {
					if !seen[fn] {
						out = append(out, fn)
						seen[fn] = true
					}
				}
			}
		}
	}
	return out
}
