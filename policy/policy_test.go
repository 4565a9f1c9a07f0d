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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/types"
)

func TestParseFieldTagExtractsKnownKeys(t *testing.T) {
	meta := ParseFieldTag(`json:"full_name" skip_serialize:"true" default:"0" rename_all:"snake_case"`)
	assert.Equal(t, "full_name", meta.JSON)
	assert.True(t, meta.SkipSerialize)
	assert.Equal(t, "0", meta.Default)
	assert.Equal(t, "snake_case", meta.RenameAll)
}

func TestParseFieldTagEmptyYieldsZeroValue(t *testing.T) {
	meta := ParseFieldTag("")
	assert.Equal(t, FieldMeta{}, meta)
}

func TestComposeMergesFieldsAndImplementsWithDerivedPriority(t *testing.T) {
	base := &Policy{
		Name:       "A",
		Fields:     map[string]FieldMeta{"x": {JSON: "from_a"}},
		Implements: []string{"Display"},
	}
	derived := &Policy{
		Name:       "B",
		Fields:     map[string]FieldMeta{"x": {JSON: "from_b"}, "y": {SkipSerialize: true}},
		Implements: []string{"Serialize"},
	}
	merged := Compose("B", derived, base)
	assert.Equal(t, "from_b", merged.Fields["x"].JSON)
	assert.True(t, merged.Fields["y"].SkipSerialize)
	assert.ElementsMatch(t, []string{"Display", "Serialize"}, merged.Implements)
}

func TestRegistryHasBuiltins(t *testing.T) {
	r := NewRegistry()
	p, ok := r.Lookup("Serializable")
	require.True(t, ok)
	assert.Contains(t, p.Implements, "Display")
	assert.Contains(t, p.Implements, "Serialize")

	d, ok := r.Lookup("Droppable")
	require.True(t, ok)
	assert.Contains(t, d.Implements, "Drop")
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Register(&Policy{Name: "Serializable"}))
}

func point() *ast.StructDef {
	return &ast.StructDef{
		Name: "Point",
		Fields: []ast.FieldDef{
			{Name: "x", Type: types.I32},
			{Name: "y", Type: types.I32, Tag: `skip_serialize:"true"`},
		},
		Policies: []string{"Serializable"},
	}
}

func TestSynthesizeGeneratesDisplayAndSerializeWhenMissing(t *testing.T) {
	s := NewSynthesizer(NewRegistry())
	impls, err := s.Synthesize(point(), nil)
	require.NoError(t, err)
	require.Len(t, impls, 2)

	traits := map[string]*ast.ImplDef{}
	for _, impl := range impls {
		traits[impl.Trait] = impl
	}
	require.Contains(t, traits, "Display")
	require.Contains(t, traits, "Serialize")
	assert.Equal(t, "display", traits["Display"].Methods[0].Name)
	assert.Equal(t, "serialize", traits["Serialize"].Methods[0].Name)
}

func TestSynthesizeSkipsTraitsAlreadyImplemented(t *testing.T) {
	s := NewSynthesizer(NewRegistry())
	structDef := point()
	existing := []*ast.ImplDef{
		{Trait: "Display", For: types.NewNamed("Point"), Methods: []*ast.Function{{Name: "display"}}},
	}
	impls, err := s.Synthesize(structDef, existing)
	require.NoError(t, err)
	require.Len(t, impls, 1)
	assert.Equal(t, "Serialize", impls[0].Trait)
}

func TestSynthesizeUnknownPolicyErrors(t *testing.T) {
	s := NewSynthesizer(NewRegistry())
	structDef := point()
	structDef.Policies = []string{"NoSuchPolicy"}
	_, err := s.Synthesize(structDef, nil)
	require.Error(t, err)
}

func TestSynthesizeDropInDeclarationOrder(t *testing.T) {
	s := NewSynthesizer(NewRegistry())
	structDef := point()
	structDef.Policies = []string{"Droppable"}
	impls, err := s.Synthesize(structDef, nil)
	require.NoError(t, err)
	require.Len(t, impls, 1)
	method := impls[0].Methods[0]
	require.Len(t, method.Body.Stmts, 2)
	first := method.Body.Stmts[0].(*ast.StmtExpr).Value.(*ast.ExprCall)
	assert.Equal(t, "x", first.Recv.(*ast.ExprField).Field)
}

func TestSerializedNameAppliesRenameAll(t *testing.T) {
	field := ast.FieldDef{Name: "FullName"}
	meta := FieldMeta{RenameAll: "snake_case"}
	assert.Equal(t, "full_name", serializedName(field, meta))
}

func TestSerializedNamePrefersExplicitJSONTag(t *testing.T) {
	field := ast.FieldDef{Name: "FullName"}
	meta := FieldMeta{JSON: "name", RenameAll: "snake_case"}
	assert.Equal(t, "name", serializedName(field, meta))
}
