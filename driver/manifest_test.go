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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifestParsesValidDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{
		"name": "demo",
		"version": "0.1.0",
		"main": "src/main.vx",
		"dependencies": {"collections": "^1.0"},
		"native": {"sources": ["shim.c"], "linkFlags": ["-lm"]}
	}`
	require.NoError(t, afero.WriteFile(fs, "vex.json", []byte(doc), 0o644))

	m, err := LoadManifest(fs, "vex.json")
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
	assert.Equal(t, []string{"shim.c"}, m.Native.Sources)
	assert.Equal(t, "^1.0", m.Dependencies["collections"])
}

func TestLoadManifestRejectsMissingRequiredField(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "vex.json", []byte(`{"name": "demo"}`), 0o644))

	_, err := LoadManifest(fs, "vex.json")
	assert.Error(t, err)
}

func TestLoadManifestRejectsMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "vex.json", []byte(`not json`), 0o644))

	_, err := LoadManifest(fs, "vex.json")
	assert.Error(t, err)
}

func TestWriteManifestThenLoadManifestRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := &Manifest{Name: "demo", Version: "0.1.0", Main: "src/main.vx"}
	require.NoError(t, WriteManifest(fs, "vex.json", m))

	loaded, err := LoadManifest(fs, "vex.json")
	require.NoError(t, err)
	assert.Equal(t, m.Name, loaded.Name)
}
