// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdpots

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/tasksource/postopt"
)

var log = logging.Component("pots")

func runPots(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("POTS_")
	if err := loader.RequireAll(
		"key_file", "cert_file", "controller_host", "controller_port",
		"run_name", "setup_dir", "multiplier", "max_runtime",
		"num_evals", "opt_status_file",
	); err != nil {
		log.WithError(err).Error("invalid pots configuration")
		return err
	}

	setup, err := setupparser.Parse(loader.String("setup_dir"))
	if err != nil {
		return fmt.Errorf("parsing calibration setup %s: %w", loader.String("setup_dir"), err)
	}

	bestX, err := postopt.ReadBestX(loader.String("opt_status_file"))
	if err != nil {
		return fmt.Errorf("reading optimizer status file: %w", err)
	}

	tlsConfig, err := certutil.MutualTLSConfig(loader.String("cert_file"), loader.String("key_file"))
	if err != nil {
		return fmt.Errorf("loading TLS credentials: %w", err)
	}
	target := fmt.Sprintf("%s:%d", loader.String("controller_host"), loader.Int("controller_port"))
	client, err := rpc.Dial(target, tlsConfig)
	if err != nil {
		return fmt.Errorf("dialing controller: %w", err)
	}
	defer client.Close()

	runCfg := postopt.RunConfig{
		RunName:    loader.String("run_name"),
		Multiplier: loader.Int("multiplier"),
		MaxRuntime: loader.String("max_runtime"),
		NumEvals:   loader.Int("num_evals"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.WithField("run_name", runCfg.RunName).Info("minting post-optimizer validation tasks")
	postopt.CreateTasks(ctx, client, setup, runCfg, bestX)
	log.Info("pots finished")
	return nil
}
