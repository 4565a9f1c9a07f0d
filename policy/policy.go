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

// Package policy implements the policy synthesizer (spec.md §4.4): a
// policy is a named bundle of per-field metadata plus a list of traits it
// obligates a struct to implement. Field metadata is parsed the same way
// the teacher parses its own `lang:"..."` struct tags, via reflect.StructTag
// keyed lookups (engine/util.StructTagToFieldName), generalized here to an
// arbitrary key set (`json`, `skip_serialize`, `default`, `rename_all`)
// since Vex's field tags aren't constrained to a single recognized key.
package policy

import (
	"fmt"
	"reflect"
)

// FieldMeta is one field's parsed tag metadata.
type FieldMeta struct {
	JSON          string // `json:"..."` override name; "" means use the field's own name
	SkipSerialize bool   // `skip_serialize:"true"`
	Default       string // `default:"..."` literal text; no synthesized method reads it
	RenameAll     string // `rename_all:"snake_case"`, etc, applied to every field lacking its own `json` override
}

// ParseFieldTag parses one field's raw backtick tag text into a FieldMeta,
// the same reflect.StructTag-based lookup the teacher's
// StructTagToFieldName uses against its own "lang" key.
func ParseFieldTag(raw string) FieldMeta {
	tag := reflect.StructTag(raw)
	meta := FieldMeta{}
	if v, ok := tag.Lookup("json"); ok {
		meta.JSON = v
	}
	if v, ok := tag.Lookup("skip_serialize"); ok && v == "true" {
		meta.SkipSerialize = true
	}
	if v, ok := tag.Lookup("default"); ok {
		meta.Default = v
	}
	if v, ok := tag.Lookup("rename_all"); ok {
		meta.RenameAll = v
	}
	return meta
}

// Policy is a named set of field-level metadata plus the traits it
// obligates an implementing struct to have (spec.md §4.4).
type Policy struct {
	Name       string
	Fields     map[string]FieldMeta // keyed by struct field name
	Implements []string             // trait names
}

// Compose merges base's fields and implements into a derived policy
// (`policy B with A`): fields already present in the derived policy take
// precedence over the base's metadata for the same field name, and the
// implements lists are unioned.
func Compose(name string, derived, base *Policy) *Policy {
	merged := &Policy{
		Name:   name,
		Fields: make(map[string]FieldMeta, len(base.Fields)+len(derived.Fields)),
	}
	for k, v := range base.Fields {
		merged.Fields[k] = v
	}
	for k, v := range derived.Fields {
		merged.Fields[k] = v // derived overrides base for the same field
	}

	seen := make(map[string]bool)
	for _, t := range base.Implements {
		if !seen[t] {
			seen[t] = true
			merged.Implements = append(merged.Implements, t)
		}
	}
	for _, t := range derived.Implements {
		if !seen[t] {
			seen[t] = true
			merged.Implements = append(merged.Implements, t)
		}
	}
	return merged
}

// Registry holds every policy known to one compilation, built-ins plus
// whatever the source declares.
type Registry struct {
	policies map[string]*Policy
}

// NewRegistry returns a registry pre-populated with the built-in policies
// (SPEC_FULL.md §C.6): Serializable and Droppable.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]*Policy)}
	r.policies[Serializable.Name] = Serializable
	r.policies[Droppable.Name] = Droppable
	return r
}

// Register adds p to the registry, rejecting a name collision with an
// existing policy (built-in or user-declared).
func (r *Registry) Register(p *Policy) error {
	if _, exists := r.policies[p.Name]; exists {
		return fmt.Errorf("policy %q already declared", p.Name)
	}
	r.policies[p.Name] = p
	return nil
}

// Lookup resolves a policy by name.
func (r *Registry) Lookup(name string) (*Policy, bool) {
	p, ok := r.policies[name]
	return p, ok
}
