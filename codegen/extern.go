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

// ExternFunc is one entry of the link-time function table (spec.md §4.5:
// "extern 'C' declarations are registered in the function table even when
// the backend already knows them, so callers can resolve them via the
// single lookup path").
type ExternFunc struct {
	Name   string
	ABI    string
	Params []*types.Type
	Ret    *types.Type
}

// FunctionTable accumulates every extern declaration registered from a
// compilation unit's own extern blocks; extern blocks of imported units are
// not merged in.
type FunctionTable struct {
	entries map[string]*ExternFunc
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{entries: make(map[string]*ExternFunc)}
}

// Register adds block's functions to the table. A name already present
// with an identical signature is a no-op (the same extern block imported
// twice through separate paths); a conflicting re-declaration is an error.
func (t *FunctionTable) Register(block *ast.ExternBlock) error {
	for _, fn := range block.Functions {
		entry := &ExternFunc{Name: fn.Name, ABI: block.ABI, Ret: fn.Ret}
		for _, p := range fn.Params {
			entry.Params = append(entry.Params, p.Type)
		}
		if existing, ok := t.entries[fn.Name]; ok {
			if !sameSignature(existing, entry) {
				return fmt.Errorf("codegen: conflicting extern declarations for %q", fn.Name)
			}
			continue
		}
		t.entries[fn.Name] = entry
	}
	return nil
}

// Lookup resolves name against the function table. Codegen's lowerCall does
// not consult it: a call is emitted against the call site's resolved name
// directly.
func (t *FunctionTable) Lookup(name string) (*ExternFunc, bool) {
	e, ok := t.entries[name]
	return e, ok
}

func sameSignature(a, b *ExternFunc) bool {
	if a.ABI != b.ABI || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Cmp(b.Params[i]) != nil {
			return false
		}
	}
	if (a.Ret == nil) != (b.Ret == nil) {
		return false
	}
	if a.Ret != nil && a.Ret.Cmp(b.Ret) != nil {
		return false
	}
	return true
}
