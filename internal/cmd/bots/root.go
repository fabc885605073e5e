// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package cmdbots is the cobra command tree for the Bayesian optimizer
// task source binary, grounded on
// original_source/epihiper_setup_utils/.../bayes_opt_task_source/main.py:
// a single long-running process, no subcommands.
package cmdbots

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "bots",
	Short: "mackenzie Bayesian optimizer task source",
	Long: `bots drives one Bayesian minimizer per (cell, place) in a
calibration setup, probing one point at a time and folding each
completed task back into the minimizer as soon as it finishes, per
spec.md §4.6. Configured entirely from BOTS_-prefixed environment
variables.`,
	RunE: runBots,
}

// Execute runs the bots command tree.
func Execute() error {
	return rootCmd.Execute()
}
