// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdcontroller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/tarutil"
)

var addSetupDir string

var addSetupCmd = &cobra.Command{
	Use:   "add-setup",
	Short: "Package a setup directory and upload it to the controller",
	Long: `Tars the named directory, mirroring the original CLI's
"tar -C <parent> -czf <name>.tar.gz <name>", and sends the result to
the controller over the CMD_-configured RPC connection.`,
	RunE: runAddSetup,
}

func init() {
	rootCmd.AddCommand(addSetupCmd)
	addSetupCmd.Flags().StringVarP(&addSetupDir, "setup-dir", "d", "", "a directory containing an epihiper setup")
	addSetupCmd.MarkFlagRequired("setup-dir")
}

func runAddSetup(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader("CMD_")
	if err := loader.RequireAll("key_file", "cert_file", "controller_host", "controller_port"); err != nil {
		return err
	}

	setupDir, err := filepath.Abs(addSetupDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(setupDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("setup dir %s does not exist or is not a directory", setupDir)
	}
	setupName := filepath.Base(setupDir)

	tarPath := filepath.Join(os.TempDir(), setupName+".tar.gz")
	color.Yellow("creating setup tar file: %s", tarPath)
	if err := tarutil.CreateGz(setupDir, tarPath); err != nil {
		return fmt.Errorf("creating setup tar: %w", err)
	}
	defer os.Remove(tarPath)

	tarBytes, err := os.ReadFile(tarPath)
	if err != nil {
		return err
	}

	tlsConfig, err := certutil.MutualTLSConfig(loader.String("cert_file"), loader.String("key_file"))
	if err != nil {
		return fmt.Errorf("loading TLS credentials: %w", err)
	}

	color.Cyan("connecting to controller")
	target := fmt.Sprintf("%s:%d", loader.String("controller_host"), loader.Int("controller_port"))
	client, err := rpc.Dial(target, tlsConfig)
	if err != nil {
		return err
	}
	defer client.Close()

	bar := progressbar.DefaultBytes(int64(len(tarBytes)), "uploading "+setupName)
	bar.Add64(int64(len(tarBytes)))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := client.AddSetup(ctx, &rpc.AddSetupRequest{Name: setupName, Tar: tarBytes}); err != nil {
		color.Red("add-setup failed: %v", err)
		return err
	}

	color.Green("setup %q added successfully", setupName)
	return nil
}
