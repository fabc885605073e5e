// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package cmdpots is the cobra command tree for the post-optimizer run
// task source binary, grounded on
// original_source/epihiper_setup_utils/.../post_opt_task_source/main.py:
// a one-shot fan-out with no poll loop and no minimizer feedback.
package cmdpots

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "pots",
	Short: "mackenzie post-optimizer run task source",
	Long: `pots replays a completed calibration run's best predicted point
per (cell, place), read from that run's status.csv, as a fixed number
of validation replicate tasks, then exits, per spec.md §C.3. Configured
entirely from POTS_-prefixed environment variables.`,
	RunE: runPots,
}

// Execute runs the pots command tree.
func Execute() error {
	return rootCmd.Execute()
}
