// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package cmdpts is the cobra command tree for the projection task
// source binary, grounded on
// original_source/epihiper_setup_utils/.../proj_task_source/main.py: a
// one-shot fan-out with no poll loop and no minimizer feedback.
package cmdpts

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "pts",
	Short: "mackenzie projection task source",
	Long: `pts mints every (cell, place, batch, replicate) projection task in
a setup once and exits, per spec.md §C.3. Configured entirely from
PTS_-prefixed environment variables.`,
	RunE: runPts,
}

// Execute runs the pts command tree.
func Execute() error {
	return rootCmd.Execute()
}
