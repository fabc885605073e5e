// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package setupwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchFiresOnChangeForNewSubdirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "existing-cell"), 0o770))

	fired := make(chan struct{}, 1)
	watcher, err := Watch(root, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.Mkdir(filepath.Join(root, "new-cell"), 0o770))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called after new subdirectory creation")
	}
}

func TestWatchMissingRootFails(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "does-not-exist"), func() {})
	require.Error(t, err)
}
