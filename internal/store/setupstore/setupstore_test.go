// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package setupstore

import (
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "setup.db"))
	assert.NilError(t, err)
	return s
}

func TestUpsertIdempotent(t *testing.T) {
	s := openTest(t)

	assert.NilError(t, s.Upsert("A", "hash1"))
	assert.NilError(t, s.Upsert("A", "hash1"))

	names, err := s.Names()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"A"})

	hash, err := s.Hash("A")
	assert.NilError(t, err)
	assert.Equal(t, hash, "hash1")
}

func TestUpsertHashMismatchConflicts(t *testing.T) {
	s := openTest(t)

	assert.NilError(t, s.Upsert("A", "hash1"))
	err := s.Upsert("A", "hash2")
	assert.ErrorContains(t, err, "different tar hash")
}

func TestHashNotFound(t *testing.T) {
	s := openTest(t)

	_, err := s.Hash("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestHasReportsPresence(t *testing.T) {
	s := openTest(t)

	has, err := s.Has("A")
	assert.NilError(t, err)
	assert.Equal(t, has, false)

	assert.NilError(t, s.Upsert("A", "hash1"))

	has, err = s.Has("A")
	assert.NilError(t, err)
	assert.Equal(t, has, true)
}
