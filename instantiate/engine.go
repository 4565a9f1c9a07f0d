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

package instantiate

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/internal/errwrap"
	"github.com/vexlang/vexc/mangle"
	"github.com/vexlang/vexc/types"
)

// DefaultMaxDepth is the default ceiling on Engine.depth (SPEC_FULL.md
// §C.5), the number of InstantiateFunction/InstantiateStruct calls in
// progress at once. Neither method instantiates the generics a cloned body
// references, so a single request runs at depth 1 and
// RecursionLimitExceeded is reported only when MaxDepth is below that; the
// transitive instantiations the driver triggers are each a separate
// top-level request.
const DefaultMaxDepth = 64

// Engine is the demand-driven instantiation engine. One Engine serves a
// whole compilation unit (spec.md's "Generic Instantiation" component of
// the six-stage pipeline).
type Engine struct {
	MaxDepth int

	funcTemplates   map[string]*ast.Function
	structTemplates map[string]*ast.StructDef
	enumTemplates   map[string]*ast.EnumDef

	cache map[string]*Record

	// depth tracks the current instantiation call chain's length, reset
	// to zero between independent top-level instantiation requests.
	depth int

	logf func(format string, v ...interface{})
}

// NewEngine creates an Engine with the given template tables. logf may be
// nil.
func NewEngine(funcs map[string]*ast.Function, structs map[string]*ast.StructDef, enums map[string]*ast.EnumDef, logf func(format string, v ...interface{})) *Engine {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Engine{
		MaxDepth:        DefaultMaxDepth,
		funcTemplates:   funcs,
		structTemplates: structs,
		enumTemplates:   enums,
		cache:           make(map[string]*Record),
		logf:            logf,
	}
}

// RecursionLimitExceededError is returned when the instantiation call chain
// grows past Engine.MaxDepth.
type RecursionLimitExceededError struct {
	Chain []string
}

func (e *RecursionLimitExceededError) Error() string {
	return fmt.Sprintf("instantiation recursion limit exceeded (depth %d): %v", len(e.Chain), e.Chain)
}

// InstantiateFunction returns the Record for templateName applied to args,
// building it on first demand and reusing the cached Record on every
// subsequent request for the same (name, args) pair — idempotence is the
// cache key, not a side effect to avoid.
func (e *Engine) InstantiateFunction(templateName string, args []*types.Type) (*Record, error) {
	tmpl, ok := e.funcTemplates[templateName]
	if !ok {
		return nil, fmt.Errorf("no generic function template named %q", templateName)
	}

	mangled := mangle.Function(templateName, args)
	if rec, ok := e.cache[mangled]; ok {
		e.logf("instantiate: cache hit for %s", mangled)
		return rec, nil
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.MaxDepth {
		return nil, &RecursionLimitExceededError{Chain: []string{mangled}}
	}

	if len(tmpl.Generics) != len(args) {
		return nil, fmt.Errorf("generic function %q expects %d type argument(s), got %d", templateName, len(tmpl.Generics), len(args))
	}

	subst := make(map[string]*types.Type, len(args))
	for i, gp := range tmpl.Generics {
		subst[gp.Name] = args[i]
	}

	rec := &Record{
		Kind:         RecordFunction,
		TemplateName: templateName,
		TypeArgs:     args,
		Mangled:      mangled,
	}
	// Register before substituting the body: this is what makes direct
	// and mutual recursion through the same instantiation safe. A
	// recursive call site resolved while Func is still nil simply
	// references Mangled, which will exist as a link-time symbol by the
	// time codegen runs.
	e.cache[mangled] = rec

	clone, err := substituteFunction(tmpl, subst, mangled)
	if err != nil {
		return nil, errwrap.Wrapf(err, "instantiating %s", templateName)
	}
	rec.Func = clone
	rec.Built = true

	e.logf("instantiate: built %s from %s<%v>", mangled, templateName, args)
	return rec, nil
}

// InstantiateStruct returns the Record for a generic struct applied to
// args, following the same demand-driven, cached, recursion-guarded shape
// as InstantiateFunction. A struct's own methods (impl blocks) are
// materialized lazily by InstantiateFunction the first time a call site
// actually calls one, per SPEC_FULL.md's "struct-method materialization
// before first call site" guarantee — this function only ever builds the
// struct's field layout.
func (e *Engine) InstantiateStruct(templateName string, args []*types.Type) (*Record, error) {
	tmpl, ok := e.structTemplates[templateName]
	if !ok {
		return nil, fmt.Errorf("no generic struct template named %q", templateName)
	}

	mangled := mangle.Struct(templateName, args)
	if rec, ok := e.cache[mangled]; ok {
		return rec, nil
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.MaxDepth {
		return nil, &RecursionLimitExceededError{Chain: []string{mangled}}
	}

	if len(tmpl.Generics) != len(args) {
		return nil, fmt.Errorf("generic struct %q expects %d type argument(s), got %d", templateName, len(tmpl.Generics), len(args))
	}

	subst := make(map[string]*types.Type, len(args))
	for i, gp := range tmpl.Generics {
		subst[gp.Name] = args[i]
	}

	rec := &Record{
		Kind:         RecordStruct,
		TemplateName: templateName,
		TypeArgs:     args,
		Mangled:      mangled,
	}
	e.cache[mangled] = rec

	clone := &ast.StructDef{
		Name:     mangled,
		Policies: append([]string(nil), tmpl.Policies...),
	}
	for _, f := range tmpl.Fields {
		clone.Fields = append(clone.Fields, ast.FieldDef{
			Name: f.Name,
			Type: f.Type.Substitute(subst),
			Span: f.Span,
		})
	}
	rec.Struct = clone
	rec.Built = true

	return rec, nil
}

// Records returns every cached Record, ordered by mangled name, for the
// driver's instantiation pass (resolveInstantiations) to walk.
func (e *Engine) Records() []*Record {
	names := make([]string, 0, len(e.cache))
	for k := range e.cache {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]*Record, 0, len(names))
	for _, n := range names {
		out = append(out, e.cache[n])
	}
	return out
}

func substituteFunction(tmpl *ast.Function, subst map[string]*types.Type, mangled string) (*ast.Function, error) {
	clone := &ast.Function{
		Name:    mangled,
		Ret:     tmpl.Ret.Substitute(subst),
		Async:   tmpl.Async,
		Extern:  tmpl.Extern,
		ABI:     tmpl.ABI,
		Mangled: mangled,
	}
	for _, p := range tmpl.Params {
		clone.Params = append(clone.Params, &ast.Param{
			Name:    p.Name,
			Type:    p.Type.Substitute(subst),
			Mutable: p.Mutable,
			Span:    p.Span,
		})
	}
	if tmpl.Receiver != nil {
		clone.Receiver = &ast.Param{
			Name:    tmpl.Receiver.Name,
			Type:    tmpl.Receiver.Type.Substitute(subst),
			Mutable: tmpl.Receiver.Mutable,
			Span:    tmpl.Receiver.Span,
		}
	}
	if tmpl.Body != nil {
		clone.Body = substituteBlock(tmpl.Body, subst)
	}
	return clone, nil
}

// substituteBlock copies a block, rewriting the type annotations of its
// let bindings. Expression-level types are neither rewritten nor
// re-inferred against the clone: a generic body's expressions never carry a
// pre-solved type, only its explicit annotations do.
func substituteBlock(b *ast.Block, subst map[string]*types.Type) *ast.Block {
	if b == nil {
		return nil
	}
	clone := &ast.Block{Span: b.Span, Tail: b.Tail}
	for _, s := range b.Stmts {
		clone.Stmts = append(clone.Stmts, substituteStmt(s, subst))
	}
	return clone
}

func substituteStmt(s ast.Stmt, subst map[string]*types.Type) ast.Stmt {
	switch v := s.(type) {
	case *ast.StmtLet:
		cp := *v
		if v.Type != nil {
			cp.Type = v.Type.Substitute(subst)
		}
		return &cp
	default:
		// Every other statement kind carries its own types, if any,
		// on nested Expr nodes resolved later by the unifier, so a
		// shallow copy is enough to give this instantiation its own
		// node identity (important: the borrow checker keys symbol
		// state off node pointers, and every instantiation needs its
		// own independent state).
		cp := reflect.New(reflect.TypeOf(s).Elem())
		cp.Elem().Set(reflect.ValueOf(s).Elem())
		return cp.Interface().(ast.Stmt)
	}
}
