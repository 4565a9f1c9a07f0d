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

// Serializable and Droppable are the two ready-made policies shipped with
// the compiler (SPEC_FULL.md §C.6), on top of the general `with Policy`
// mechanism spec.md §4.4 requires of user-declared policies. A struct
// declaring `with Serializable` or `with Droppable` gets these without
// having to hand-write an equivalent policy declaration first.
var (
	// Serializable obligates Display and a field-keyed Serialize method,
	// synthesized per-field per spec.md §4.4's example ("a Serialize
	// method that concatenates field-keyed text using the json rename
	// rule and skipping fields tagged skip_serialize").
	Serializable = &Policy{
		Name:       "Serializable",
		Fields:     map[string]FieldMeta{},
		Implements: []string{"Display", "Serialize"},
	}

	// Droppable obligates a Drop method that drops every field in
	// declaration order, the same order struct fields are laid out in
	// (spec.md §4.5's tagged-enum/struct layout rule applies the same
	// declaration-order convention).
	Droppable = &Policy{
		Name:       "Droppable",
		Fields:     map[string]FieldMeta{},
		Implements: []string{"Drop"},
	}
)
