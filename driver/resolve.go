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
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/instantiate"
	"github.com/vexlang/vexc/mangle"
	"github.com/vexlang/vexc/types"
	"github.com/vexlang/vexc/unify"
)

// resolveInstantiations is the Generic Instantiator stage (spec.md §2's
// second pipeline stage): it walks every concrete function's body, and
// every body a generic call site causes the engine to materialize in turn,
// filling in ExprCall.Resolved before codegen ever visits the call site
// (codegen/lower.go's lowerCall depends on this having already happened).
// It also drives InstantiateStruct for generic struct/enum literals, so
// every instantiation a compilation actually uses ends up registered with
// the engine (and, for structs/enums, folded into the unit's layout
// tables) even though struct literals carry no Resolved field of their own
// for codegen to consult.
func resolveInstantiations(u *Unit, engine *instantiate.Engine) []*diag.Diagnostic {
	var diags []*diag.Diagnostic

	// worklist starts with every already-concrete function/method body;
	// resolving a generic call site appends that instantiation's cloned
	// body to the worklist too, since its calls need resolving exactly
	// the same way.
	worklist := u.AllFunctions()
	seen := make(map[*ast.Function]bool, len(worklist))
resolve:
	for i := 0; i < len(worklist); i++ {
		fn := worklist[i]
		if fn == nil || fn.Body == nil || seen[fn] {
			continue
		}
		seen[fn] = true

		walkBlock(fn.Body, func(e ast.Expr) {
			switch ex := e.(type) {
			case *ast.ExprCall:
				d := resolveCall(u, engine, ex)
				if d != nil {
					diags = append(diags, d)
					return
				}
			case *ast.ExprStructLit:
				resolveStructLit(u, engine, ex)
			}
		})
	}

	// Pull in every instantiated function body the engine produced above
	// (including ones reached transitively through other instantiations)
	// and walk the worklist again so they get the same Resolved-call
	// treatment.
	queued := len(worklist)
	for _, rec := range engine.Records() {
		if rec.Kind == instantiate.RecordFunction && rec.Func != nil && rec.Func.Body != nil && !seen[rec.Func] {
			worklist = append(worklist, rec.Func)
		}
	}
	if len(worklist) > queued {
		goto resolve
	}

	return diags
}

// resolveCall fills in call.Resolved for one call site, instantiating its
// target through engine first if it names a generic template.
func resolveCall(u *Unit, engine *instantiate.Engine, call *ast.ExprCall) *diag.Diagnostic {
	if call.Resolved != "" {
		return nil // already resolved by an earlier pass over a shared template body
	}

	base := call.Callee
	key := base
	if call.Recv != nil {
		if recvType := call.Recv.Type(); recvType != nil && recvType.Name != "" {
			key = implKey(recvType.Name, base)
		}
	}

	_, generic := u.Generics[key]
	if !generic {
		_, generic = u.Generics[base]
		if generic {
			key = base
		}
	}

	if !generic {
		// Already concrete: its mangled name is exactly its declared
		// key, since Function() with a nil/empty args slice returns
		// base unchanged (mangle.go).
		call.Resolved = mangle.Function(key, nil)
		return nil
	}

	if len(call.TypeArgs) == 0 {
		return diag.New(diag.KindUninferredType, call.Pos(),
			"cannot resolve generic call to %q without explicit or inferred type arguments", base)
	}

	rec, err := engine.InstantiateFunction(key, call.TypeArgs)
	if err != nil {
		if rle, ok := err.(*instantiate.RecursionLimitExceededError); ok {
			return diag.New(diag.KindRecursionLimit, call.Pos(), "%s", rle.Error())
		}
		return diag.New(diag.KindNameResolution, call.Pos(), "instantiating %q: %s", base, err.Error())
	}

	if d := checkInstantiatedSignature(rec, call); d != nil {
		return d
	}

	call.Resolved = rec.Mangled
	if rec.Func != nil {
		u.Functions[rec.Mangled] = rec.Func
	}
	return nil
}

// checkInstantiatedSignature confirms a call site's already-known argument
// and result types agree with the concrete signature engine just produced
// by substituting call.TypeArgs into the template. A template's body is
// cloned and substituted without ever being re-type-checked against the
// call that triggered it, so this is the one place that actually happens:
// each argument's existing type is pinned with an EqualInvariant, then
// pinned again to the corresponding substituted parameter type, so the
// solver's own Cmp check (unify/solver.go's resolveOne, EqualInvariant
// case) is what catches a mismatch, instead of this package re-deriving
// type-compatibility rules of its own.
func checkInstantiatedSignature(rec *instantiate.Record, call *ast.ExprCall) *diag.Diagnostic {
	if rec.Func == nil {
		return nil
	}

	var invariants []unify.Invariant
	n := len(call.Args)
	if len(rec.Func.Params) < n {
		n = len(rec.Func.Params)
	}
	for i := 0; i < n; i++ {
		argType := call.Args[i].Type()
		paramType := rec.Func.Params[i].Type
		if argType == nil || paramType == nil {
			continue
		}
		invariants = append(invariants,
			&unify.EqualInvariant{Expr: call.Args[i], Type: argType},
			&unify.EqualInvariant{Expr: call.Args[i], Type: paramType})
	}
	if retType := call.Type(); retType != nil && rec.Func.Ret != nil {
		invariants = append(invariants,
			&unify.EqualInvariant{Expr: call, Type: retType},
			&unify.EqualInvariant{Expr: call, Type: rec.Func.Ret})
	}
	if len(invariants) == 0 {
		return nil
	}

	if _, err := unify.Solve(invariants, nil); err != nil {
		return diag.New(diag.KindTypeMismatch, call.Pos(),
			"instantiation %q does not match call site %q: %s", rec.Mangled, call.Callee, err.Error())
	}
	return nil
}

// resolveStructLit instantiates the struct template ex.Name refers to, if
// its resolved type is generic, registering the concrete clone under its
// mangled name so the layout tables (codegen/layout.go) can look it up the
// same way they look up any other named struct.
func resolveStructLit(u *Unit, engine *instantiate.Engine, ex *ast.ExprStructLit) {
	def, ok := u.Structs[ex.Name]
	if !ok || len(def.Generics) == 0 {
		return
	}
	typ := ex.Type()
	args := genericArgsOf(typ)
	if len(args) == 0 {
		return // not enough information yet; a missing-inference diagnostic is the unifier's job, not this pass's
	}
	rec, err := engine.InstantiateStruct(ex.Name, args)
	if err != nil {
		return // surfaced by the unifier/type-checker phase that ran before this one; nothing more to do here
	}
	if rec.Struct != nil {
		u.Structs[rec.Mangled] = rec.Struct
	}
}

// genericArgsOf returns t's type arguments when t is a generic
// instantiation (or pending instantiation), nil otherwise.
func genericArgsOf(t *types.Type) []*types.Type {
	if t == nil || t.Kind != types.KindGeneric {
		return nil
	}
	return t.Args
}
