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

package codegen

import (
	"fmt"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// ClosureCounter hands out the "__closure_N" names a single compilation
// unit's closures lower to (spec.md §4.5). It is scoped to one Lowerer's
// enclosing compilation, never a package-level global.
type ClosureCounter struct{ next int }

// Name returns the next fresh top-level closure function name.
func (c *ClosureCounter) Name() string {
	n := fmt.Sprintf("__closure_%d", c.next)
	c.next++
	return n
}

// EnvType builds the environment record type a closure's captures are
// packed into: one field per captured Symbol, in capture order (tracked
// positionally against the same captures slice LowerClosure receives). The
// closure body addresses its free variables through this record instead of
// the enclosing function's stack frame directly, since by the time the
// closure runs the frame that declared them may already be gone.
func EnvType(captures []*ast.Symbol) *types.Type {
	fields := make([]*types.Type, len(captures))
	for i, c := range captures {
		fields[i] = c.Type
	}
	return types.NewTuple(fields...)
}

// LowerClosure lowers one closure literal to its own top-level Function,
// taking the packed environment as a hidden leading parameter (spec.md
// §4.5: "whose captured environment is passed as a hidden pointer
// parameter"). It returns the lowered Function, whose Name is name.
func LowerClosure(name string, closure *ast.ExprClosure, envType *types.Type) (*Function, error) {
	envParam := &Param{id: "%env", typ: types.NewPointer(envType, false)}
	params := make([]*Param, 0, len(closure.Params)+1)
	params = append(params, envParam)
	for _, p := range closure.Params {
		params = append(params, &Param{id: "%" + p.Name, typ: p.Type})
	}

	lw := &Lowerer{
		fn:     NewFunction(name, params, closure.Ret),
		locals: make(map[*ast.Symbol]Value),
	}
	entry := lw.fn.NewBlock("entry")
	lw.fn.SetCurrent(entry)

	for i, sym := range closure.Captures {
		// Each captured symbol is read out of the env record once, into
		// its own slot, so the closure body's existing Load/Store
		// lowering (keyed by Symbol) works unmodified.
		addr := lw.fn.emitFieldAddr(envParam, sym.Name, i, sym.Type)
		slot := lw.fn.emitAlloca(sym.Type)
		lw.fn.emitStore(slot, lw.fn.emitLoad(addr))
		lw.locals[sym] = slot
	}
	for i, p := range closure.Params {
		slot := lw.fn.emitAlloca(p.Type)
		lw.fn.emitStore(slot, params[i+1])
		if p.Sym != nil {
			lw.locals[p.Sym] = slot
		}
	}

	if err := lw.lowerBlock(closure.Body); err != nil {
		return nil, err
	}
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitReturn(nil)
	}
	return lw.fn, nil
}
