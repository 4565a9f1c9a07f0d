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

package policy

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

// Synthesizer expands `with Policy` declarations into trait-method sets
// (spec.md §4.4): for every trait the policy obligates, it generates an
// implementation only when the struct doesn't already provide one, reading
// each field's policy metadata (fieldMetaFor) as it builds the method. The
// StructDef itself is not modified.
type Synthesizer struct {
	Registry *Registry
}

// NewSynthesizer returns a Synthesizer backed by r.
func NewSynthesizer(r *Registry) *Synthesizer {
	return &Synthesizer{Registry: r}
}

// fieldMetaFor resolves the effective FieldMeta for one struct field: the
// policy's per-field override if present, falling back to the field's own
// tag, falling back to the zero value.
func fieldMetaFor(p *Policy, field ast.FieldDef) FieldMeta {
	if m, ok := p.Fields[field.Name]; ok {
		return m
	}
	return ParseFieldTag(field.Tag)
}

// serializedName returns the key a field is emitted under: its own `json`
// tag override if set, else the policy's `rename_all` convention applied to
// the field's declared name, else the field's declared name verbatim.
func serializedName(field ast.FieldDef, meta FieldMeta) string {
	if meta.JSON != "" {
		return meta.JSON
	}
	switch meta.RenameAll {
	case "snake_case":
		return strcase.ToSnake(field.Name)
	case "camelCase":
		return strcase.ToLowerCamel(field.Name)
	case "PascalCase":
		return strcase.ToCamel(field.Name)
	case "kebab-case":
		return strcase.ToKebab(field.Name)
	default:
		return field.Name
	}
}

// Synthesize expands every policy named on structDef.Policies, generating
// an ImplDef for each obligated trait that existingImpls doesn't already
// cover. It returns only the newly generated
// ImplDefs; manually-written implementations are left untouched.
func (s *Synthesizer) Synthesize(structDef *ast.StructDef, existingImpls []*ast.ImplDef) ([]*ast.ImplDef, error) {
	has := make(map[string]bool, len(existingImpls))
	for _, impl := range existingImpls {
		if impl.For != nil && impl.For.Name == structDef.Name {
			has[impl.Trait] = true
		}
	}

	var merged *Policy
	for _, name := range structDef.Policies {
		p, ok := s.Registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("struct %q declares unknown policy %q", structDef.Name, name)
		}
		if merged == nil {
			merged = p
			continue
		}
		merged = Compose(merged.Name+"+"+p.Name, p, merged)
	}
	if merged == nil {
		return nil, nil
	}

	recv := types.NewNamed(structDef.Name)

	var generated []*ast.ImplDef
	for _, trait := range merged.Implements {
		if has[trait] {
			continue
		}
		var method *ast.Function
		switch trait {
		case "Display":
			method = synthesizeDisplay(structDef, merged)
		case "Serialize":
			method = synthesizeSerialize(structDef, merged)
		case "Drop":
			method = synthesizeDrop(structDef)
		default:
			// Not a built-in synthesizable shape: a user policy may
			// obligate a trait it expects the struct to implement by
			// hand. No pass checks that the struct does (the MissingImpl
			// diagnostic kind is never emitted); the synthesizer only
			// fills in the shapes it actually knows how to generate.
			continue
		}
		generated = append(generated, &ast.ImplDef{
			Trait:   trait,
			For:     recv,
			Methods: []*ast.Function{method},
		})
	}
	return generated, nil
}

// synthesizeDisplay builds a `display(self): String` method that
// concatenates "key=value" for every non-skipped field, in declaration
// order, with each key named by the json/rename_all metadata.
func synthesizeDisplay(structDef *ast.StructDef, p *Policy) *ast.Function {
	return &ast.Function{
		Name:   "display",
		Params: nil,
		Ret:    types.String,
		Receiver: &ast.Param{
			Name: "self",
			Type: types.NewNamed(structDef.Name),
		},
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtReturn{Value: buildFieldConcat(structDef, p, "=")},
			},
		},
	}
}

// synthesizeSerialize builds a `serialize(self): String` method that
// concatenates `key:value, ...` text, skipping fields tagged
// skip_serialize and applying the json/rename_all metadata to each key. No
// braces or quotes are added.
func synthesizeSerialize(structDef *ast.StructDef, p *Policy) *ast.Function {
	return &ast.Function{
		Name:   "serialize",
		Params: nil,
		Ret:    types.String,
		Receiver: &ast.Param{
			Name: "self",
			Type: types.NewNamed(structDef.Name),
		},
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.StmtReturn{Value: buildFieldConcat(structDef, p, ":")},
			},
		},
	}
}

// synthesizeDrop builds a `drop!(self)` method that drops every field in
// declaration order, matching the declaration-order convention spec.md
// §4.5 uses for tagged-enum/struct layout.
func synthesizeDrop(structDef *ast.StructDef) *ast.Function {
	body := &ast.Block{}
	for _, f := range structDef.Fields {
		body.Stmts = append(body.Stmts, &ast.StmtExpr{
			Value: &ast.ExprCall{
				Recv:   &ast.ExprField{Field: f.Name},
				Callee: "drop",
			},
		})
	}
	return &ast.Function{
		Name: "drop",
		Receiver: &ast.Param{
			Name:    "self",
			Type:    types.NewNamed(structDef.Name),
			Mutable: true,
		},
		Body: body,
	}
}

// buildFieldConcat builds a left-to-right ExprBinary(OpAdd) chain joining
// every non-skipped field's rendered "key<sep>value" text, separated by
// ", ". An empty struct yields a single empty-string literal.
func buildFieldConcat(structDef *ast.StructDef, p *Policy, sep string) ast.Expr {
	var parts []ast.Expr
	for i, f := range structDef.Fields {
		meta := fieldMetaFor(p, f)
		if meta.SkipSerialize {
			continue
		}
		if i > 0 && len(parts) > 0 {
			parts = append(parts, &ast.ExprLiteral{Kind: ast.LitString, Text: ", "})
		}
		key := serializedName(f, meta)
		parts = append(parts, &ast.ExprLiteral{Kind: ast.LitString, Text: key + sep})
		parts = append(parts, &ast.ExprField{Field: f.Name})
	}
	if len(parts) == 0 {
		return &ast.ExprLiteral{Kind: ast.LitString, Text: ""}
	}
	expr := parts[0]
	for _, next := range parts[1:] {
		expr = &ast.ExprBinary{Op: ast.OpAdd, Left: expr, Right: next}
	}
	return expr
}
