// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdbots

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/minimizer/bayes"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/setupwatch"
	"github.com/vanavreddy/mackenzie/internal/statuscsv"
	"github.com/vanavreddy/mackenzie/internal/store/minimizerstore"
	bots "github.com/vanavreddy/mackenzie/internal/tasksource/bayes"
)

var log = logging.Component("bots")

func runBots(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("BOTS_")
	if err := loader.RequireAll(
		"key_file", "cert_file", "controller_host", "controller_port",
		"work_dir", "run_name", "setup_dir", "multiplier", "max_runtime",
		"init_evals", "explore_evals", "exploit_evals", "parallel_evals",
		"kappa_initial", "kappa_scale",
	); err != nil {
		log.WithError(err).Error("invalid bots configuration")
		return err
	}

	setup, err := setupparser.Parse(loader.String("setup_dir"))
	if err != nil {
		return fmt.Errorf("parsing calibration setup %s: %w", loader.String("setup_dir"), err)
	}

	store, err := minimizerstore.Open(loader.String("work_dir") + "/minimizers.db")
	if err != nil {
		return fmt.Errorf("opening minimizer store: %w", err)
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

	runCfg := bots.RunConfig{
		RunName:    loader.String("run_name"),
		Multiplier: loader.Int("multiplier"),
		MaxRuntime: loader.String("max_runtime"),
		Minimizer: bayes.Config{
			InitEvals:     loader.Int("init_evals"),
			ExploreEvals:  loader.Int("explore_evals"),
			ExploitEvals:  loader.Int("exploit_evals"),
			ParallelEvals: loader.Int("parallel_evals"),
			KappaInitial:  loader.Float("kappa_initial"),
			KappaScale:    loader.Float("kappa_scale"),
		},
	}

	minIDs, err := bots.CreateMinimizers(store, setup, runCfg)
	if err != nil {
		return fmt.Errorf("creating minimizers: %w", err)
	}
	log.WithField("count", len(minIDs)).Info("minimizers ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bots.InitializeMinimizers(ctx, client, store, minIDs); err != nil {
		return fmt.Errorf("minting initial tasks: %w", err)
	}

	watcher, err := setupwatch.Watch(loader.String("setup_dir"), func() {
		rescanSetup(ctx, client, store, loader.String("setup_dir"), runCfg)
	})
	if err != nil {
		return fmt.Errorf("watching setup directory: %w", err)
	}
	defer watcher.Close()

	statusPath := loader.String("work_dir") + "/status.csv"
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err = c.AddFunc("@every 5s", func() {
		runIteration(ctx, client, store, statusPath)
	})
	if err != nil {
		return fmt.Errorf("scheduling bots loop: %w", err)
	}
	c.Start()

	log.WithField("run_name", runCfg.RunName).Info("bots running")
	<-ctx.Done()
	log.Info("shutting down bots")
	<-c.Stop().Done()
	return nil
}

// rescanSetup re-parses setupDir and mints initial tasks for any
// newly-added cells/places. bots.InitializeMinimizers already skips any
// minimizer with PointsProbed != 0, so re-running it against the full
// (old + new) minimizer list never re-probes a point already in flight.
func rescanSetup(ctx context.Context, client *rpc.Client, store *minimizerstore.Store, setupDir string, runCfg bots.RunConfig) {
	setup, err := setupparser.Parse(setupDir)
	if err != nil {
		log.WithError(err).Warn("re-parsing setup after change notification")
		return
	}
	minIDs, err := bots.CreateMinimizers(store, setup, runCfg)
	if err != nil {
		log.WithError(err).Warn("creating minimizers for updated setup")
		return
	}
	if err := bots.InitializeMinimizers(ctx, client, store, minIDs); err != nil {
		log.WithError(err).Warn("minting initial tasks for updated setup")
	}
}

func runIteration(ctx context.Context, client *rpc.Client, store *minimizerstore.Store, statusPath string) {
	if err := bots.HandleCompletedTasks(ctx, client, store); err != nil {
		log.WithError(err).Warn("handling completed tasks")
	}

	rows, err := bots.Statuses(store)
	if err != nil {
		log.WithError(err).Warn("computing statuses")
		return
	}
	if err := statuscsv.WriteBayes(statusPath, rows); err != nil {
		log.WithError(err).Warn("writing status.csv")
	}
}
