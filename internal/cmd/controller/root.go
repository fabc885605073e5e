// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package controller is the cobra command tree for the controller
// binary: serving the RPC surface is the root command's own action;
// add-setup and makecert are client-side utility subcommands grounded
// on the original cmd/main.py click group and makecert.py.
package cmdcontroller

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "controller",
	Short: "mackenzie controller: setup catalog and task queue RPC server",
	Long: `The controller hosts the setup catalog and task queue described in
spec.md, exposing them to agents and task sources over a mutually
authenticated gRPC surface.

Run with no subcommand to start serving. Use add-setup to upload a new
setup directory and makecert to mint a fresh TLS keypair.`,
	RunE: runServe,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
