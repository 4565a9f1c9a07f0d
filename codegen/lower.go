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

// AggregateThreshold is the compile-time constant spec.md §4.5 calls for:
// an array/struct literal at or above this element count is allocated and
// stored into directly, skipping the construct-then-copy pattern.
const AggregateThreshold = 100

// Lowerer walks one already typed, borrow-checked ast.Function and lowers
// it to a codegen.Function. One Lowerer is used per function; it holds no
// state shared across functions.
type Lowerer struct {
	fn     *Function
	locals map[*ast.Symbol]Value // symbol -> its alloca'd stack slot address
	loops  []loopFrame
}

// loopFrame records the jump targets a `break`/`continue` inside the
// current loop resolves to.
type loopFrame struct {
	continueTarget *BasicBlock
	breakTarget    *BasicBlock
}

// NewLowerer returns a Lowerer ready to lower source into a Function named
// mangledName.
func NewLowerer(mangledName string, params []*Param, ret *types.Type) *Lowerer {
	return &Lowerer{
		fn:     NewFunction(mangledName, params, ret),
		locals: make(map[*ast.Symbol]Value),
	}
}

// allParams returns fn's receiver (if any) followed by its declared
// parameters, the order ParamsOf lays them out in.
func allParams(fn *ast.Function) []*ast.Param {
	if fn.Receiver == nil {
		return fn.Params
	}
	return append([]*ast.Param{fn.Receiver}, fn.Params...)
}

// ParamsOf converts fn's receiver/parameter list into the codegen.Param
// list NewLowerer expects, preserving the receiver-first order allParams
// uses.
func ParamsOf(fn *ast.Function) []*Param {
	astParams := allParams(fn)
	out := make([]*Param, len(astParams))
	for i, p := range astParams {
		out[i] = &Param{id: "%" + p.Name, typ: p.Type}
	}
	return out
}

// Lower lowers fn's body and returns the finished codegen.Function. fn must
// already be type-checked and borrow-checked: codegen assumes soundness and
// emits no runtime aliasing checks (spec.md §4.5).
func (lw *Lowerer) Lower(fn *ast.Function) (*Function, error) {
	entry := lw.fn.NewBlock("entry")
	lw.fn.SetCurrent(entry)

	// The receiver, when present, is always prepended (ParamsOf built
	// lw.fn.Params in the same order), so it gets a stack slot exactly
	// like any other parameter: later mutation through a `self!` receiver
	// is then a plain Store.
	astParams := allParams(fn)
	for i, p := range astParams {
		slot := lw.fn.emitAlloca(p.Type)
		lw.fn.emitStore(slot, lw.fn.Params[i])
		if p.Sym != nil {
			lw.locals[p.Sym] = slot
		}
	}

	if err := lw.lowerBlock(fn.Body); err != nil {
		return nil, err
	}

	// A block falling off the end without an explicit return returns Unit.
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitReturn(nil)
	}
	return lw.fn, nil
}

func isTerminator(i Instruction) bool {
	switch i.(type) {
	case *Return, *Jump, *If:
		return true
	default:
		return false
	}
}

func (lw *Lowerer) lowerBlock(b *ast.Block) error {
	for _, s := range b.Stmts {
		if err := lw.lowerStmt(s); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		if _, err := lw.lowerExpr(b.Tail); err != nil {
			return err
		}
	}
	return nil
}

func (lw *Lowerer) lowerStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.StmtLet:
		return lw.lowerLet(st)
	case *ast.StmtAssign:
		return lw.lowerAssign(st)
	case *ast.StmtExpr:
		_, err := lw.lowerExpr(st.Value)
		return err
	case *ast.StmtReturn:
		if st.Value == nil {
			lw.fn.emitReturn(nil)
			return nil
		}
		v, err := lw.lowerExpr(st.Value)
		if err != nil {
			return err
		}
		lw.fn.emitReturn(v)
		return nil
	case *ast.StmtIf:
		return lw.lowerIf(st)
	case *ast.StmtWhile:
		return lw.lowerWhile(st)
	case *ast.StmtFor:
		return lw.lowerFor(st)
	case *ast.StmtBreak:
		if len(lw.loops) == 0 {
			return fmt.Errorf("codegen: break outside a loop")
		}
		lw.fn.emitJump(lw.loops[len(lw.loops)-1].breakTarget)
		return nil
	case *ast.StmtContinue:
		if len(lw.loops) == 0 {
			return fmt.Errorf("codegen: continue outside a loop")
		}
		lw.fn.emitJump(lw.loops[len(lw.loops)-1].continueTarget)
		return nil
	default:
		return fmt.Errorf("codegen: unsupported statement %T", s)
	}
}

// lowerLet allocates a slot for the new binding and either stores the RHS
// value into it, or (for a large aggregate literal) constructs the
// aggregate directly into the slot without a separate temporary (spec.md
// §4.5's aggregate-construct-into-destination rule).
func (lw *Lowerer) lowerLet(st *ast.StmtLet) error {
	typ := st.Sym.Type
	slot := lw.fn.emitAlloca(typ)
	lw.locals[st.Sym] = slot

	if st.Value == nil {
		return nil
	}
	if constructedInto(st.Value, lw, slot) {
		return lw.lowerConstructInto(st.Value, slot)
	}
	v, err := lw.lowerExpr(st.Value)
	if err != nil {
		return err
	}
	lw.fn.emitStore(slot, v)
	return nil
}

// constructedInto reports whether value is an aggregate literal large
// enough to qualify for direct-into-destination construction.
func constructedInto(value ast.Expr, lw *Lowerer, slot Value) bool {
	switch v := value.(type) {
	case *ast.ExprArrayLit:
		return len(v.Elems) >= AggregateThreshold
	case *ast.ExprStructLit:
		return len(v.Fields) >= AggregateThreshold
	default:
		return false
	}
}

// lowerConstructInto emits element/field stores straight into dst instead
// of building a temporary and copying it, and collapses a uniform
// zero-valued array-repeat into a single MemSet intrinsic.
func (lw *Lowerer) lowerConstructInto(value ast.Expr, dst Value) error {
	switch v := value.(type) {
	case *ast.ExprArrayLit:
		if allZero(v.Elems) {
			lw.fn.emitMemSet(dst, len(v.Elems))
			return nil
		}
		for i, elem := range v.Elems {
			ev, err := lw.lowerExpr(elem)
			if err != nil {
				return err
			}
			idx := lw.fn.emitConst(fmt.Sprintf("%d", i), types.I64)
			addr := lw.fn.emitIndexAddr(dst, idx, ev.Type())
			lw.fn.emitStore(addr, ev)
		}
		return nil
	case *ast.ExprStructLit:
		for i, f := range v.Fields {
			ev, err := lw.lowerExpr(f.Value)
			if err != nil {
				return err
			}
			addr := lw.fn.emitFieldAddr(dst, f.Name, i, ev.Type())
			lw.fn.emitStore(addr, ev)
		}
		return nil
	default:
		return fmt.Errorf("codegen: %T is not an aggregate literal", value)
	}
}

// allZero reports whether every element is the literal zero/false/nil, the
// case the memset intrinsic covers.
func allZero(elems []ast.Expr) bool {
	for _, e := range elems {
		lit, ok := e.(*ast.ExprLiteral)
		if !ok {
			return false
		}
		switch lit.Kind {
		case ast.LitInt:
			if lit.Text != "0" {
				return false
			}
		case ast.LitFloat:
			if lit.Text != "0.0" && lit.Text != "0" {
				return false
			}
		case ast.LitBool:
			if lit.Text != "false" {
				return false
			}
		case ast.LitNil:
			// always zero
		default:
			return false
		}
	}
	return len(elems) > 0
}

func (lw *Lowerer) lowerAssign(st *ast.StmtAssign) error {
	addr, err := lw.lowerLValue(st.Target)
	if err != nil {
		return err
	}
	v, err := lw.lowerExpr(st.Value)
	if err != nil {
		return err
	}
	lw.fn.emitStore(addr, v)
	return nil
}

// lowerLValue resolves the storage address an assignment target or a `&`
// expression refers to, without reading through it.
func (lw *Lowerer) lowerLValue(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.ExprVar:
		if addr, ok := lw.locals[ex.Sym]; ok {
			return addr, nil
		}
		return nil, fmt.Errorf("codegen: %q has no stack slot", ex.Name)
	case *ast.ExprField:
		base, err := lw.lowerLValue(ex.Recv)
		if err != nil {
			return nil, err
		}
		// FieldAddr.Index is informational only at this call site (the
		// receiver's own StructDef layout resolves the real declaration
		// order); a field access through an already-typed receiver only
		// needs the name to compute the right address.
		return lw.fn.emitFieldAddr(base, ex.Field, 0, ex.Type()), nil
	case *ast.ExprIndex:
		base, err := lw.lowerLValue(ex.Recv)
		if err != nil {
			return nil, err
		}
		idx, err := lw.lowerExpr(ex.Index)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitIndexAddr(base, idx, ex.Type()), nil
	case *ast.ExprUnary:
		if ex.Op == ast.OpDeref {
			return lw.lowerExpr(ex.Expr) // the pointer value itself is the address
		}
		return nil, fmt.Errorf("codegen: unary op %d is not an lvalue", ex.Op)
	default:
		return nil, fmt.Errorf("codegen: %T is not an lvalue", e)
	}
}

func (lw *Lowerer) lowerIf(st *ast.StmtIf) error {
	cond, err := lw.lowerExpr(st.Cond)
	if err != nil {
		return err
	}
	thenBlk := lw.fn.NewBlock("if.then")
	elseBlk := lw.fn.NewBlock("if.else")
	join := lw.fn.NewBlock("if.join")
	lw.fn.emitIf(cond, thenBlk, elseBlk)

	lw.fn.SetCurrent(thenBlk)
	if err := lw.lowerBlock(st.Then); err != nil {
		return err
	}
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitJump(join)
	}

	lw.fn.SetCurrent(elseBlk)
	if st.Else != nil {
		if err := lw.lowerBlock(st.Else); err != nil {
			return err
		}
	}
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitJump(join)
	}

	lw.fn.SetCurrent(join)
	return nil
}

func (lw *Lowerer) lowerWhile(st *ast.StmtWhile) error {
	head := lw.fn.NewBlock("while.head")
	body := lw.fn.NewBlock("while.body")
	after := lw.fn.NewBlock("while.after")

	lw.fn.emitJump(head)
	lw.fn.SetCurrent(head)
	cond, err := lw.lowerExpr(st.Cond)
	if err != nil {
		return err
	}
	lw.fn.emitIf(cond, body, after)

	lw.fn.SetCurrent(body)
	lw.loops = append(lw.loops, loopFrame{continueTarget: head, breakTarget: after})
	err = lw.lowerBlock(st.Body)
	lw.loops = lw.loops[:len(lw.loops)-1]
	if err != nil {
		return err
	}
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitJump(head)
	}

	lw.fn.SetCurrent(after)
	return nil
}

// lowerFor lowers a `for x in iter { ... }` loop onto the same
// head/body/after shape as lowerWhile, with the per-iteration value pulled
// from a runtime-provided "__iter_next" call: full iterator-protocol
// desugaring (what "in iter" resolves against for a user-defined type) is
// the driver's import-merging concern, not codegen's.
func (lw *Lowerer) lowerFor(st *ast.StmtFor) error {
	iter, err := lw.lowerExpr(st.Iter)
	if err != nil {
		return err
	}

	head := lw.fn.NewBlock("for.head")
	body := lw.fn.NewBlock("for.body")
	after := lw.fn.NewBlock("for.after")

	lw.fn.emitJump(head)
	lw.fn.SetCurrent(head)
	hasNext := lw.fn.emitCall("__iter_has_next", []Value{iter}, types.Bool)
	lw.fn.emitIf(hasNext, body, after)

	lw.fn.SetCurrent(body)
	elemSlot := lw.fn.emitAlloca(st.Iter.Type())
	next := lw.fn.emitCall("__iter_next", []Value{iter}, st.Iter.Type())
	lw.fn.emitStore(elemSlot, next)
	sym := &ast.Symbol{Name: st.Var, Type: st.Iter.Type()}
	lw.locals[sym] = elemSlot

	lw.loops = append(lw.loops, loopFrame{continueTarget: head, breakTarget: after})
	err = lw.lowerBlock(st.Body)
	lw.loops = lw.loops[:len(lw.loops)-1]
	if err != nil {
		return err
	}
	if cur := lw.fn.Current(); len(cur.Instrs) == 0 || !isTerminator(cur.Instrs[len(cur.Instrs)-1]) {
		lw.fn.emitJump(head)
	}

	lw.fn.SetCurrent(after)
	return nil
}

func (lw *Lowerer) lowerExpr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.ExprLiteral:
		return lw.fn.emitConst(ex.Text, ex.Type()), nil
	case *ast.ExprVar:
		addr, ok := lw.locals[ex.Sym]
		if !ok {
			return nil, fmt.Errorf("codegen: %q has no stack slot", ex.Name)
		}
		return lw.fn.emitLoad(addr), nil
	case *ast.ExprBinary:
		x, err := lw.lowerExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		y, err := lw.lowerExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitBinOp(ex.Op, x, y, ex.Type()), nil
	case *ast.ExprUnary:
		return lw.lowerUnary(ex)
	case *ast.ExprCall:
		return lw.lowerCall(ex)
	case *ast.ExprField:
		addr, err := lw.lowerLValue(ex)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitLoad(addr), nil
	case *ast.ExprIndex:
		addr, err := lw.lowerLValue(ex)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitLoad(addr), nil
	case *ast.ExprStructLit, *ast.ExprArrayLit:
		// An aggregate literal used as a sub-expression (not directly
		// bound by a `let`) still gets its own destination slot; only
		// the `let`-bound case above can skip straight to the caller's
		// slot.
		slot := lw.fn.emitAlloca(e.Type())
		if err := lw.lowerConstructInto(e, slot); err != nil {
			return nil, err
		}
		return lw.fn.emitLoad(slot), nil
	default:
		return nil, fmt.Errorf("codegen: unsupported expression %T", e)
	}
}

func (lw *Lowerer) lowerUnary(ex *ast.ExprUnary) (Value, error) {
	switch ex.Op {
	case ast.OpRefOf, ast.OpRefOfMut:
		return lw.lowerLValue(ex.Expr)
	case ast.OpDeref:
		ptr, err := lw.lowerExpr(ex.Expr)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitLoad(ptr), nil
	default:
		x, err := lw.lowerExpr(ex.Expr)
		if err != nil {
			return nil, err
		}
		return lw.fn.emitUnOp(ex.Op, x, ex.Type()), nil
	}
}

// lowerCall emits a direct call to the already-resolved link-time target
// (spec.md §4.2/§4.5: instantiation happens before codegen ever visits the
// call site, so Resolved is always populated by this point).
func (lw *Lowerer) lowerCall(ex *ast.ExprCall) (Value, error) {
	target := ex.Resolved
	if target == "" {
		target = ex.Callee
	}
	args := make([]Value, 0, len(ex.Args)+1)
	if ex.Recv != nil {
		recv, err := lw.lowerLValue(ex.Recv)
		if err != nil {
			// Not every receiver is addressable (e.g. a call chained
			// straight off another call's result); fall back to its
			// value form.
			recv, err = lw.lowerExpr(ex.Recv)
			if err != nil {
				return nil, err
			}
		}
		args = append(args, recv)
	}
	for _, a := range ex.Args {
		v, err := lw.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return lw.fn.emitCall(target, args, ex.Type()), nil
}
