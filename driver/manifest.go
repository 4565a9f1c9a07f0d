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

package driver

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
)

// manifestSchemaDoc is the package manifest's shape (spec.md §6: "JSON
// with fields name, version, main, dependencies, native"). It is compiled
// once per LoadManifest call rather than cached globally, since a CLI
// invocation only ever reads one manifest.
const manifestSchemaDoc = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "version", "main"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"version": {"type": "string", "minLength": 1},
		"main": {"type": "string", "minLength": 1},
		"dependencies": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		},
		"native": {
			"type": "object",
			"properties": {
				"sources": {"type": "array", "items": {"type": "string"}},
				"linkFlags": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

// Native is the manifest's native-build section: C sources compiled and
// linked alongside the generated object file, and extra flags passed to
// the system linker (spec.md §6's "native (compiled C sources and link
// flags merged into the final link command)").
type Native struct {
	Sources   []string `json:"sources"`
	LinkFlags []string `json:"linkFlags"`
}

// Manifest is the package manifest the compiler reads but does not own
// (spec.md §6: "external, the compiler only reads"). LoadManifest is the
// one place that external contract is actually parsed and validated.
type Manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Main         string            `json:"main"`
	Dependencies map[string]string `json:"dependencies"`
	Native       Native            `json:"native"`
}

// LoadManifest reads path from fs, validates it against the manifest
// schema, and decodes it. A schema-validation failure is reported with
// the offending document attached, exactly the shape a `vex check`
// invocation run on a malformed manifest should surface to its caller.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("manifest %q is not valid JSON: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	var schemaDoc any
	if err := json.Unmarshal([]byte(manifestSchemaDoc), &schemaDoc); err != nil {
		return nil, fmt.Errorf("internal: manifest schema: %w", err)
	}
	if err := compiler.AddResource("manifest.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("internal: manifest schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("internal: manifest schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("manifest %q failed validation: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %q: %w", path, err)
	}
	return &m, nil
}

// WriteManifest marshals m as indented JSON and writes it to path on fs,
// the counterpart LoadManifest's callers reach for after `new`/`init`
// scaffold a package, or `add`/`remove`/`update` edit its dependency set.
func WriteManifest(fs afero.Fs, path string, m *Manifest) error {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	out = append(out, '\n')
	return afero.WriteFile(fs, path, out, 0o644)
}
