// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdcontroller

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
)

var makecertCmd = &cobra.Command{
	Use:   "makecert NAME",
	Short: "Generate a self-signed TLS keypair (NAME.crt / NAME.key)",
	Long: `Mints the RSA-4096/SHA-256, CN=common, 10-year-valid self-signed
certificate spec.md §6 requires, replacing the original makecert.py's
openssl invocation with Go's crypto/x509.`,
	Args: cobra.ExactArgs(1),
	RunE: runMakecert,
}

func init() {
	rootCmd.AddCommand(makecertCmd)
}

func runMakecert(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := certutil.Generate(name); err != nil {
		return fmt.Errorf("generating certificate: %w", err)
	}
	color.Green("wrote %s.crt and %s.key", name, name)
	return nil
}
