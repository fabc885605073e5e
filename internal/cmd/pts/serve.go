// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdpts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/tasksource/proj"
)

var log = logging.Component("pts")

func runPts(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("PTS_")
	if err := loader.RequireAll(
		"key_file", "cert_file", "controller_host", "controller_port",
		"run_name", "setup_dir", "multiplier", "max_runtime",
		"start_batch", "num_replicates",
	); err != nil {
		log.WithError(err).Error("invalid pts configuration")
		return err
	}

	numReplicates, err := parseIntList(loader.Strings("num_replicates"))
	if err != nil {
		return fmt.Errorf("parsing PTS_NUM_REPLICATES: %w", err)
	}

	setup, err := proj.ParseSetup(loader.String("setup_dir"))
	if err != nil {
		return fmt.Errorf("parsing projection setup %s: %w", loader.String("setup_dir"), err)
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

	runCfg := proj.RunConfig{
		RunName:       loader.String("run_name"),
		StartBatch:    loader.Int("start_batch"),
		NumReplicates: numReplicates,
		Multiplier:    loader.Int("multiplier"),
		MaxRuntime:    loader.String("max_runtime"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.WithField("run_name", runCfg.RunName).Info("minting projection tasks")
	proj.CreateTasks(ctx, client, setup, runCfg)
	log.Info("pts finished")
	return nil
}

func parseIntList(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}
