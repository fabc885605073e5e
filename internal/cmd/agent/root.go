// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package cmdagent is the cobra command tree for the agent binary,
// grounded on original_source/mackenzie/src/mackenzie/agent/main.py: a
// single long-running process, no subcommands.
package cmdagent

import "github.com/spf13/cobra"

var (
	envFilePath string
	outputRoot  string
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "mackenzie agent: drives one cluster's job pipeline",
	Long: `The agent syncs setups from the controller, claims tasks for its
cluster, submits and tracks their batch-scheduler jobs, and reports
results back, per spec.md §4.2. Grounded on the original
mackenzie_agent click command: the RPC/cluster identity comes from
AGENT_-prefixed configuration, but the per-cluster environment file and
output root are explicit flags, as in the original.`,
	RunE: runAgent,
}

func init() {
	rootCmd.Flags().StringVarP(&envFilePath, "env-file", "e", "", "environment config file")
	rootCmd.Flags().StringVarP(&outputRoot, "output-root", "o", "", "root of the output directory to set up")
	rootCmd.MarkFlagRequired("env-file")
	rootCmd.MarkFlagRequired("output-root")
}

// Execute runs the agent command tree.
func Execute() error {
	return rootCmd.Execute()
}
