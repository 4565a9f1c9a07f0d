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

package unify

import (
	"fmt"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/internal/errwrap"
	"github.com/vexlang/vexc/types"
)

// Name prefixes this solver's log lines, matching the teacher's
// unification.Name convention.
const Name = "unify: worklist"

// Solve is an iterative, fixed-point invariant solver: it repeatedly scans
// the remaining equalities for ones it can resolve, applies what it
// learns, and loops until nothing changes. Structurally this is the
// teacher's SimpleInvariantSolver, generalized to Vex's narrower
// constraint vocabulary (Equal/Equality/MethodReceiver/Assignment instead
// of the teacher's list/map/struct/func "wrap" constraints, which have no
// analogue here since Vex has no reactive container types to unify).
func Solve(invariants []Invariant, logf func(format string, v ...interface{})) (*Solution, error) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	logf("%s: %d invariants", Name, len(invariants))

	solved := make(map[ast.Expr]*types.Type)
	var equalities []Invariant
	var exclusives []*ExclusiveInvariant

	flatten(invariants, &equalities, &exclusives)

	for {
		logf("%s: iterate, %d equalities, %d exclusives", Name, len(equalities), len(exclusives))
		if len(equalities) == 0 && len(exclusives) == 0 {
			break
		}

		var used []int
		for idx, inv := range equalities {
			ok, err := resolveOne(inv, solved)
			if err != nil {
				return nil, errwrap.Wrapf(err, "unification failed")
			}
			if ok {
				used = append(used, idx)
			}
		}

		if len(used) == 0 && len(exclusives) > 0 {
			// Nothing in the plain equality set moved; try every
			// combination of exclusive branches until one is
			// internally consistent. Mirrors the teacher's
			// approach of retrying with exclusivesProduct once
			// the easy equalities are exhausted.
			resolvedExclusive := false
			for _, combo := range exclusivesProduct(exclusives) {
				trial := cloneSolved(solved)
				if consistent := tryApply(combo, trial); consistent {
					solved = trial
					resolvedExclusive = true
					break
				}
			}
			if !resolvedExclusive {
				return nil, fmt.Errorf("%s: no consistent combination of exclusive invariants", Name)
			}
			exclusives = nil
			continue
		}

		if len(used) == 0 {
			break // converged, or stuck: checked below
		}
		equalities = removeIndices(equalities, used)
	}

	if len(equalities) > 0 {
		return nil, fmt.Errorf("%s: %d invariants left unresolved", Name, len(equalities))
	}

	sol := &Solution{}
	for expr, typ := range solved {
		if typ.IsUnresolvedNumeric() {
			// spec.md §4.2: an unresolved integer/float width must
			// never be silently defaulted (e.g. to i32). If nothing
			// else pinned it down, that is an UninferredType
			// diagnostic, not a guess.
			return nil, fmt.Errorf("%s: uninferred numeric width for expression at %v", Name, expr.Pos())
		}
		sol.Bindings = append(sol.Bindings, &EqualInvariant{Expr: expr, Type: typ})
	}
	return sol, nil
}

// flatten walks the invariant tree, splitting it into a flat list of
// resolvable equalities and a separate list of exclusive choice-points,
// exactly as the teacher's solver does in its first pass.
func flatten(invariants []Invariant, equalities *[]Invariant, exclusives *[]*ExclusiveInvariant) {
	for _, inv := range invariants {
		switch v := inv.(type) {
		case *ConjunctionInvariant:
			flatten(v.Invariants, equalities, exclusives)
		case *ExclusiveInvariant:
			if len(v.Invariants) > 0 {
				*exclusives = append(*exclusives, v)
			}
		default:
			*equalities = append(*equalities, inv)
		}
	}
}

// resolveOne attempts to apply a single equality-class invariant against
// the current partial solution. It returns ok=true when the invariant was
// consumed (either newly learned or confirmed consistent with what's
// already known).
func resolveOne(inv Invariant, solved map[ast.Expr]*types.Type) (bool, error) {
	switch v := inv.(type) {
	case *EqualInvariant:
		if existing, ok := solved[v.Expr]; ok {
			if err := existing.Cmp(v.Type); err != nil {
				return false, err
			}
			return true, nil
		}
		solved[v.Expr] = v.Type
		return true, nil

	case *EqualityInvariant:
		t1, ok1 := solved[v.Expr1]
		t2, ok2 := solved[v.Expr2]
		switch {
		case ok1 && ok2:
			if err := t1.Cmp(t2); err != nil {
				return false, err
			}
			return true, nil
		case ok1 && !ok2:
			solved[v.Expr2] = t1
			return true, nil
		case !ok1 && ok2:
			solved[v.Expr1] = t2
			return true, nil
		default:
			return false, nil // neither side known yet, retry later
		}

	case *AssignmentInvariant:
		valType, valOK := solved[v.Value]
		tgtType, tgtOK := solved[v.Target]
		switch {
		case valOK && tgtOK:
			if err := tgtType.Cmp(valType); err != nil {
				return false, err
			}
			return true, nil
		case valOK && !tgtOK:
			solved[v.Target] = valType
			return true, nil
		case !valOK && tgtOK:
			solved[v.Value] = tgtType
			return true, nil
		default:
			return false, nil
		}

	case *MethodReceiverInvariant:
		recvType, ok := solved[v.Recv]
		if !ok {
			if len(v.Candidates) == 1 {
				solved[v.Recv] = v.Candidates[0]
				return true, nil
			}
			return false, nil
		}
		for _, c := range v.Candidates {
			if recvType.Cmp(c) == nil {
				return true, nil
			}
		}
		return false, fmt.Errorf("no implementation of %s for receiver type %s", v.Method, recvType)

	case *AnyInvariant:
		if _, ok := solved[v.Expr]; ok {
			return true, nil
		}
		if v.Default != nil {
			solved[v.Expr] = v.Default
			return true, nil
		}
		return false, nil

	default:
		return false, fmt.Errorf("%s: unknown invariant type %T", Name, inv)
	}
}

func cloneSolved(in map[ast.Expr]*types.Type) map[ast.Expr]*types.Type {
	out := make(map[ast.Expr]*types.Type, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// tryApply applies every invariant in combo against trial, returning false
// (leaving trial in an undefined partial state, which the caller discards)
// the moment one is inconsistent.
func tryApply(combo []Invariant, trial map[ast.Expr]*types.Type) bool {
	for _, inv := range combo {
		ok, err := resolveOne(inv, trial)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func removeIndices(in []Invariant, used []int) []Invariant {
	if len(used) == 0 {
		return in
	}
	skip := make(map[int]bool, len(used))
	for _, i := range used {
		skip[i] = true
	}
	var out []Invariant
	for i, v := range in {
		if !skip[i] {
			out = append(out, v)
		}
	}
	return out
}
