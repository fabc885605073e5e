// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package cmdcsmts is the cobra command tree for the convex-scalar
// minimizer task source binary, grounded on
// original_source/epihiper_setup_utils/.../csm_task_source/main.py: a
// single long-running process, no subcommands.
package cmdcsmts

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "csmts",
	Short: "mackenzie convex-scalar minimizer task source",
	Long: `csmts drives one convex-scalar minimizer per (cell, place) in a
calibration setup, minting replicate tasks each round and folding
completed rounds back into the minimizer, per spec.md §4.6. Configured
entirely from CSMTS_-prefixed environment variables.`,
	RunE: runCsmts,
}

// Execute runs the csmts command tree.
func Execute() error {
	return rootCmd.Execute()
}
