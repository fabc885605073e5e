// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package setupparser

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func mkdirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		assert.NilError(t, os.MkdirAll(filepath.Join(base, d), 0770))
	}
}

func touch(t *testing.T, path string, content string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0770))
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
}

func buildSetupTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "mysetup")

	cellA := filepath.Join(root, "cellA")
	mkdirs(t, cellA, "objective", "updateParameter")
	touch(t, filepath.Join(cellA, "range.json"), `{"parameters":[{"name":"x0","min":0,"max":1}]}`)

	placeA := filepath.Join(cellA, "placeA")
	mkdirs(t, placeA, "traits", "initialization", "intervention", "diseaseModel")
	touch(t, filepath.Join(placeA, "runParameters.json"), `{}`)
	touch(t, filepath.Join(placeA, "priority"), "5")

	placeB := filepath.Join(cellA, "placeB")
	mkdirs(t, placeB, "traits", "initialization", "intervention", "diseaseModel")
	touch(t, filepath.Join(placeB, "runParameters.json"), `{}`)

	notACell := filepath.Join(root, "notACell")
	mkdirs(t, notACell)

	return root
}

func TestParseFindsCellsAndPlaces(t *testing.T) {
	root := buildSetupTree(t)

	setup, err := Parse(root)
	assert.NilError(t, err)

	assert.Equal(t, setup.Name, "mysetup")
	assert.Equal(t, len(setup.Cells), 1)
	cell := setup.Cells[0]
	assert.Equal(t, cell.Name, "cellA")
	assert.Equal(t, len(cell.ParamRanges), 1)
	assert.Equal(t, cell.ParamRanges[0].Name, "x0")
	assert.Equal(t, len(cell.Places), 2)
	assert.Equal(t, cell.Places[0].Name, "placeA")
	assert.Equal(t, cell.Places[0].Priority, 5)
	assert.Equal(t, cell.Places[1].Name, "placeB")
	assert.Equal(t, cell.Places[1].Priority, 1)
}

func TestParseIgnoresNonCellDirs(t *testing.T) {
	root := buildSetupTree(t)
	setup, err := Parse(root)
	assert.NilError(t, err)
	for _, c := range setup.Cells {
		assert.Assert(t, c.Name != "notACell")
	}
}
