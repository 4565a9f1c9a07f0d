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
	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// emitAlloca appends an Alloca for elem to f's current block.
func (f *Function) emitAlloca(elem *types.Type) *Alloca {
	a := &Alloca{Elem: elem}
	a.typ = types.NewPointer(elem, true)
	a.id = f.fresh()
	f.current.emit(a)
	return a
}

// emitLoad appends a Load reading through addr.
func (f *Function) emitLoad(addr Value) *Load {
	l := &Load{Addr: addr}
	l.typ = addr.Type().Elem
	l.id = f.fresh()
	f.current.emit(l)
	return l
}

// emitStore appends a Store of val through addr. Store produces no result.
func (f *Function) emitStore(addr, val Value) *Store {
	s := &Store{Addr: addr, Val: val}
	f.current.emit(s)
	return s
}

// emitBinOp appends a BinOp of the given result type.
func (f *Function) emitBinOp(op ast.BinOp, x, y Value, resultType *types.Type) *BinOp {
	b := &BinOp{Op: op, X: x, Y: y}
	b.typ = resultType
	b.id = f.fresh()
	f.current.emit(b)
	return b
}

// emitUnOp appends a UnOp of the given result type.
func (f *Function) emitUnOp(op ast.UnOp, x Value, resultType *types.Type) *UnOp {
	u := &UnOp{Op: op, X: x}
	u.typ = resultType
	u.id = f.fresh()
	f.current.emit(u)
	return u
}

// emitCall appends a direct Call to a resolved link-time name.
func (f *Function) emitCall(callee string, args []Value, resultType *types.Type) *Call {
	c := &Call{Callee: callee, Args: args}
	c.typ = resultType
	c.id = f.fresh()
	f.current.emit(c)
	return c
}

// emitFieldAddr appends a FieldAddr computing the address of field at index
// within the aggregate addressed by base.
func (f *Function) emitFieldAddr(base Value, field string, index int, fieldType *types.Type) *FieldAddr {
	fa := &FieldAddr{Base: base, Field: field, Index: index}
	fa.typ = types.NewPointer(fieldType, base.Type().Mutable)
	fa.id = f.fresh()
	f.current.emit(fa)
	return fa
}

// emitIndexAddr appends an IndexAddr computing the address of one array
// element.
func (f *Function) emitIndexAddr(base, index Value, elemType *types.Type) *IndexAddr {
	ia := &IndexAddr{Base: base, Index: index}
	ia.typ = types.NewPointer(elemType, base.Type().Mutable)
	ia.id = f.fresh()
	f.current.emit(ia)
	return ia
}

// emitMemSet appends a MemSet filling length elements at dst with zero
// values (spec.md §4.5's zero-repeat memset intrinsic).
func (f *Function) emitMemSet(dst Value, length int) *MemSet {
	m := &MemSet{Dst: dst, Len: length}
	f.current.emit(m)
	return m
}

// emitConst appends a compile-time-known scalar constant.
func (f *Function) emitConst(text string, typ *types.Type) *Const {
	c := &Const{Text: text}
	c.typ = typ
	c.id = f.fresh()
	f.current.emit(c)
	return c
}

// emitJump appends an unconditional branch and wires the CFG edge.
func (f *Function) emitJump(target *BasicBlock) *Jump {
	j := &Jump{Target: target}
	f.current.emit(j)
	addEdge(f.current, target)
	return j
}

// emitIf appends a two-way conditional branch and wires both CFG edges.
func (f *Function) emitIf(cond Value, then, els *BasicBlock) *If {
	i := &If{Cond: cond, Then: then, Else: els}
	f.current.emit(i)
	addEdge(f.current, then)
	addEdge(f.current, els)
	return i
}

// emitReturn appends a Return, with no operand when result is nil.
func (f *Function) emitReturn(result Value) *Return {
	r := &Return{Result: result}
	f.current.emit(r)
	return r
}

// emitMakeClosure appends a MakeClosure binding fn to its captured
// environment pointer.
func (f *Function) emitMakeClosure(fn string, env Value, closureType *types.Type) *MakeClosure {
	mc := &MakeClosure{Fn: fn, Env: env}
	mc.typ = closureType
	mc.id = f.fresh()
	f.current.emit(mc)
	return mc
}
