// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package outputdir implements the output-directory rotation
// discipline of spec.md §4.2: when a setup handler is invoked for a
// job that already produced an output directory, the existing
// directory is preserved under a numbered suffix before a fresh one
// is created.
package outputdir

import (
	"fmt"
	"os"
)

// MaxFailSuffixes is the ceiling of preserved prior attempts.
const MaxFailSuffixes = 100

// Prepare renames any existing directory at path to the smallest
// unused "{path}-fail_i" (i in [1, MaxFailSuffixes]), then creates a
// fresh directory at path with mode 0770. If path does not exist yet,
// it is simply created.
func Prepare(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := rotate(path); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("statting %s: %w", path, err)
	}
	return os.MkdirAll(path, 0770)
}

func rotate(path string) error {
	for i := 1; i <= MaxFailSuffixes; i++ {
		candidate := fmt.Sprintf("%s-fail_%d", path, i)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return os.Rename(path, candidate)
		}
	}
	return fmt.Errorf("output directory %s has reached the %d preserved-attempt ceiling", path, MaxFailSuffixes)
}
