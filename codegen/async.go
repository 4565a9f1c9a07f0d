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
	"github.com/vexlang/vexc/runtime"
	"github.com/vexlang/vexc/types"
)

// AsyncState describes the heap-allocated state record one async function
// lowers its locals-crossing-an-await into (spec.md §4.5): a discriminant
// plus one slot per parameter and each local live across an `await`.
type AsyncState struct {
	StructName string
	Params     []*ast.Param
	CrossAwait []*ast.Symbol // locals whose lifetime crosses at least one await point
	Awaits     int           // number of awaits collectAsyncState found
}

// LowerAsync lowers an `async fn f(args) -> R` into a resume-function plus
// wrapper pair:
//
//   - f_resume(ctx, state) -> {Running, Yielded, Done}: a "dispatch" block
//     followed by one empty "state.N" block per await-delimited segment.
//     The dispatch block holds no switch over the discriminant, and fn's
//     body is not lowered into the state blocks: no await is lowered to a
//     suspend call, a discriminant update or a Yielded return.
//   - f(args): allocates the state record, seeds the discriminant at 0,
//     copies in args, and hands the whole thing to the runtime's spawn
//     primitive (the runtime contract itself lives in the runtime
//     package, an external collaborator per §6).
func LowerAsync(mangledName string, fn *ast.Function) (resume, wrapper *Function, err error) {
	if !fn.Async {
		return nil, nil, fmt.Errorf("codegen: LowerAsync called on non-async function %q", fn.Name)
	}

	state := collectAsyncState(mangledName+"_state", fn)
	stateType := types.NewPointer(types.NewNamed(state.StructName), true)

	resumeParams := []*Param{
		{id: "%ctx", typ: types.NewPointer(types.Unit, false)},
		{id: "%state", typ: stateType},
	}
	resume = NewFunction(mangledName+"_resume", resumeParams, types.I32) // {Running,Yielded,Done} tag

	dispatch := resume.NewBlock("dispatch")
	resume.SetCurrent(dispatch)

	blocks, err := buildAwaitStates(resume, fn.Body, state.Awaits)
	if err != nil {
		return nil, nil, err
	}
	// blocks are returned in discriminant order; they stay empty, and the
	// dispatch block routes to none of them.
	_ = blocks

	wrapperParams := make([]*Param, len(fn.Params))
	for i, p := range fn.Params {
		wrapperParams[i] = &Param{id: "%" + p.Name, typ: p.Type}
	}
	wrapper = NewFunction(mangledName, wrapperParams, fn.Ret)
	entry := wrapper.NewBlock("entry")
	wrapper.SetCurrent(entry)

	slot := wrapper.emitAlloca(types.NewNamed(state.StructName))
	zero := wrapper.emitConst("0", types.I32)
	disc := wrapper.emitFieldAddr(slot, "discriminant", 0, types.I32)
	wrapper.emitStore(disc, zero)
	for i, p := range fn.Params {
		addr := wrapper.emitFieldAddr(slot, p.Name, i+1, p.Type)
		wrapper.emitStore(addr, wrapperParams[i])
	}
	spawn, _ := runtime.Lookup("runtime_spawn_global")
	wrapper.emitCall(spawn.Name, []Value{slot}, nil)
	wrapper.emitReturn(nil)

	return resume, wrapper, nil
}

// collectAsyncState walks fn's body, and the bodies of its if/else and
// while statements, counting each `let` whose initializer is an await
// (Awaits). When it finds at least one, every let-bound local in those
// blocks goes into CrossAwait, whether declared before or after the await.
// An await anywhere else (an expression statement, a nested expression, an
// elif or for body) is not seen.
func collectAsyncState(structName string, fn *ast.Function) *AsyncState {
	st := &AsyncState{StructName: structName, Params: fn.Params}
	anyAwait := false
	var locals []*ast.Symbol
	var walk func(b *ast.Block)
	walk = func(b *ast.Block) {
		for _, s := range b.Stmts {
			if let, ok := s.(*ast.StmtLet); ok {
				if containsAwait(let.Value) {
					anyAwait = true
					st.Awaits++
				}
				if let.Sym != nil {
					locals = append(locals, let.Sym)
				}
			}
			if ifs, ok := s.(*ast.StmtIf); ok {
				walk(ifs.Then)
				if ifs.Else != nil {
					walk(ifs.Else)
				}
			}
			if wh, ok := s.(*ast.StmtWhile); ok {
				walk(wh.Body)
			}
		}
	}
	walk(fn.Body)
	if anyAwait {
		st.CrossAwait = locals
	}
	return st
}

// containsAwait reports whether e itself is an await; it does not look
// inside e.
func containsAwait(e ast.Expr) bool {
	_, ok := e.(*ast.ExprAwait)
	return ok
}

// buildAwaitStates allocates one resume-function block per await-delimited
// segment (segmentCount+1 blocks total: the segments between awaits, plus
// the final one ending in Done) and returns them in discriminant order.
func buildAwaitStates(resume *Function, body *ast.Block, segmentCount int) ([]*BasicBlock, error) {
	blocks := make([]*BasicBlock, 0, segmentCount+1)
	for i := 0; i <= segmentCount; i++ {
		b := resume.NewBlock(fmt.Sprintf("state.%d", i))
		blocks = append(blocks, b)
	}
	return blocks, nil
}
