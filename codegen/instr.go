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
	"strings"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// Alloca reserves stack storage for one local of Elem, yielding a pointer
// Value (spec.md §4.5's "allocate the destination first" rule reads
// straight off of this instruction for aggregate literals).
type Alloca struct {
	instrBase
	Elem *types.Type
}

func (a *Alloca) String() string { return fmt.Sprintf("%s = alloca %s", a.id, a.Elem) }

// Load reads through a pointer Value.
type Load struct {
	instrBase
	Addr Value
}

func (l *Load) String() string { return fmt.Sprintf("%s = load %s", l.id, l.Addr.Name()) }

// Store writes Val through a pointer Value; it produces no result (spec.md
// §4.5: "mutation through &T! is a store").
type Store struct {
	instrBase
	Addr, Val Value
}

func (s *Store) String() string {
	return fmt.Sprintf("store %s, %s", s.Val.Name(), s.Addr.Name())
}

// BinOp applies a binary operator to two already-lowered operands.
type BinOp struct {
	instrBase
	Op   ast.BinOp
	X, Y Value
}

func (b *BinOp) String() string {
	return fmt.Sprintf("%s = binop %s, %s", b.id, b.X.Name(), b.Y.Name())
}

// UnOp applies a unary operator, including reference-taking and deref
// (spec.md §4.5: "&x is the address of x's storage; *p reads through it").
type UnOp struct {
	instrBase
	Op ast.UnOp
	X  Value
}

func (u *UnOp) String() string { return fmt.Sprintf("%s = unop %s", u.id, u.X.Name()) }

// Call invokes a function by its resolved link-time name (already mangled,
// already instantiated: §4.2/§4.5's "resolve the variable's stored Type,
// demand-instantiate the method if absent, then emit a direct call").
type Call struct {
	instrBase
	Callee string
	Args   []Value
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Name()
	}
	return fmt.Sprintf("%s = call %s(%s)", c.id, c.Callee, strings.Join(args, ", "))
}

// FieldAddr computes the address of a named field within an aggregate
// already addressed by Base.
type FieldAddr struct {
	instrBase
	Base  Value
	Field string
	Index int // declaration-order position, used for layout
}

func (f *FieldAddr) String() string {
	return fmt.Sprintf("%s = field_addr %s, %s", f.id, f.Base.Name(), f.Field)
}

// IndexAddr computes the address of one array element.
type IndexAddr struct {
	instrBase
	Base  Value
	Index Value
}

func (ia *IndexAddr) String() string {
	return fmt.Sprintf("%s = index_addr %s[%s]", ia.id, ia.Base.Name(), ia.Index.Name())
}

// MemSet fills Len elements at Dst with a zero value: the codegen for an
// array-repeat literal `[v; N]` when v is itself a zero value (spec.md
// §4.5's "or a memset intrinsic for zero-repeat").
type MemSet struct {
	instrBase
	Dst Value
	Len int
}

func (m *MemSet) String() string { return fmt.Sprintf("memset %s, %d", m.Dst.Name(), m.Len) }

// Const is a compile-time-known scalar value.
type Const struct {
	instrBase
	Text string
}

func (c *Const) String() string { return fmt.Sprintf("%s = const %s", c.id, c.Text) }

// Jump is an unconditional control-flow edge.
type Jump struct {
	instrBase
	Target *BasicBlock
}

func (j *Jump) String() string { return fmt.Sprintf("jump %s", j.Target) }

// If is a two-way conditional branch.
type If struct {
	instrBase
	Cond       Value
	Then, Else *BasicBlock
}

func (i *If) String() string {
	return fmt.Sprintf("if %s goto %s else %s", i.Cond.Name(), i.Then, i.Else)
}

// Return exits the function, optionally with a result.
type Return struct {
	instrBase
	Result Value // nil for a Unit-returning function
}

func (r *Return) String() string {
	if r.Result == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Result.Name())
}

// MakeClosure constructs a closure value: a function pointer to an
// already-lowered `__closure_N` top-level function paired with its
// captured-environment pointer (spec.md §4.5's closure lowering rule).
type MakeClosure struct {
	instrBase
	Fn  string
	Env Value // pointer to the environment record; nil if nothing captured
}

func (mc *MakeClosure) String() string {
	env := "<none>"
	if mc.Env != nil {
		env = mc.Env.Name()
	}
	return fmt.Sprintf("%s = make_closure %s, %s", mc.id, mc.Fn, env)
}

var (
	_ Instruction = (*Alloca)(nil)
	_ Instruction = (*Load)(nil)
	_ Instruction = (*Store)(nil)
	_ Instruction = (*BinOp)(nil)
	_ Instruction = (*UnOp)(nil)
	_ Instruction = (*Call)(nil)
	_ Instruction = (*FieldAddr)(nil)
	_ Instruction = (*IndexAddr)(nil)
	_ Instruction = (*MemSet)(nil)
	_ Instruction = (*Const)(nil)
	_ Instruction = (*Jump)(nil)
	_ Instruction = (*If)(nil)
	_ Instruction = (*Return)(nil)
	_ Instruction = (*MakeClosure)(nil)
)
