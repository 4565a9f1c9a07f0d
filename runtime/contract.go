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

// Package runtime describes the M:N coroutine runtime's C ABI (spec.md §6):
// an external collaborator the generated program links against, never
// implemented by this compiler. This package is the contract's canonical
// Go-side home — its Status constants, and the fixed symbol table codegen's
// async lowering consults by name — so that
// "what does the generated program call at runtime" has exactly one
// definition instead of being duplicated across packages that need it.
package runtime

import "fmt"

// Status is the three-way result a resume function reports on each
// invocation (spec.md §6: "Status ∈ {Running=0, Yielded=1, Done=2}").
type Status int32

const (
	StatusRunning Status = iota
	StatusYielded
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusYielded:
		return "Yielded"
	case StatusDone:
		return "Done"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Function describes one extern "C" entry point the runtime contract
// exposes: its link-time name and a documentary C-shaped signature (this
// package never calls these itself; codegen emits Call instructions
// referencing Name).
type Function struct {
	Name      string
	Signature string
}

// Functions enumerates the complete fixed runtime contract (spec.md §6).
// The driver does not register these into its codegen.FunctionTable;
// codegen refers to them by name through Lookup, without requiring the
// source program to redeclare them.
var Functions = []Function{
	{Name: "runtime_create", Signature: "Runtime* runtime_create(int workers)"},
	{Name: "runtime_run", Signature: "void runtime_run(Runtime*)"},
	{Name: "runtime_spawn_global", Signature: "void runtime_spawn_global(Runtime*, fn(ctx, state) -> Status, void* state)"},
	{Name: "worker_await_after", Signature: "void worker_await_after(ctx, uint64_t millis)"},
	{Name: "worker_await_io", Signature: "void worker_await_io(ctx, fd, EventType)"},
	{Name: "worker_cancel_token", Signature: "CancelToken* worker_cancel_token(ctx)"},
	{Name: "cancel_requested", Signature: "bool cancel_requested(const CancelToken*)"},
}

// ContainerHelpers enumerates the builtin-type container helpers the
// generated code calls when the source program uses a builtin container
// type (spec.md §6): argument-by-pointer convention, structural returns
// via a hidden sret pointer.
var ContainerHelpers = []Function{
	{Name: "vex_vec_new", Signature: "Vec* vex_vec_new(size_t elem_size)"},
	{Name: "vex_vec_push", Signature: "void vex_vec_push(Vec*, void* elem)"},
	{Name: "vex_string_len", Signature: "size_t vex_string_len(const String*)"},
	{Name: "vex_map_insert", Signature: "void vex_map_insert(Map*, void* key, void* value)"},
}

// Lookup returns the Function named name from the fixed contract (the
// runtime entry points plus the container helpers), if any.
func Lookup(name string) (Function, bool) {
	for _, f := range Functions {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range ContainerHelpers {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}
