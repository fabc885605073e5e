// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdcsmts

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/minimizer/csm"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/setupwatch"
	"github.com/vanavreddy/mackenzie/internal/statuscsv"
	"github.com/vanavreddy/mackenzie/internal/store/minimizerstore"
	csmts "github.com/vanavreddy/mackenzie/internal/tasksource/csm"
)

var log = logging.Component("csmts")

func runCsmts(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("CSMTS_")
	if err := loader.RequireAll(
		"key_file", "cert_file", "controller_host", "controller_port",
		"work_dir", "run_name", "setup_dir", "num_replicates", "multiplier", "max_runtime",
		"max_evals", "n_iter_no_change", "min_rel_improvement",
	); err != nil {
		log.WithError(err).Error("invalid csmts configuration")
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

	runCfg := csmts.RunConfig{
		RunName:       loader.String("run_name"),
		NumReplicates: loader.Int("num_replicates"),
		Multiplier:    loader.Int("multiplier"),
		MaxRuntime:    loader.String("max_runtime"),
		Minimizer: csm.Config{
			MaxEvals:          loader.Int("max_evals"),
			NIterNoChange:     loader.Int("n_iter_no_change"),
			MinRelImprovement: loader.Float("min_rel_improvement"),
			MakeYPositive:     loader.Bool("make_y_positive"),
		},
	}

	minIDs, err := csmts.CreateMinimizers(store, setup, runCfg)
	if err != nil {
		return fmt.Errorf("creating minimizers: %w", err)
	}
	log.WithField("count", len(minIDs)).Info("minimizers ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := csmts.InitializeMinimizers(ctx, client, store, minIDs); err != nil {
		return fmt.Errorf("minting initial tasks: %w", err)
	}
	known := newMinIDSet(minIDs)

	watcher, err := setupwatch.Watch(loader.String("setup_dir"), func() {
		rescanSetup(ctx, client, store, loader.String("setup_dir"), runCfg, known)
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
		return fmt.Errorf("scheduling csmts loop: %w", err)
	}
	c.Start()

	log.WithField("run_name", runCfg.RunName).Info("csmts running")
	<-ctx.Done()
	log.Info("shutting down csmts")
	<-c.Stop().Done()
	return nil
}

// minIDSet tracks which minimizer ids this process has already minted
// initial tasks for, so a setup-directory rescan only initializes the
// ones a late-added cell/place actually introduced.
type minIDSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMinIDSet(ids []string) *minIDSet {
	s := &minIDSet{seen: make(map[string]bool, len(ids))}
	for _, id := range ids {
		s.seen[id] = true
	}
	return s
}

func (s *minIDSet) addNew(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fresh []string
	for _, id := range ids {
		if !s.seen[id] {
			s.seen[id] = true
			fresh = append(fresh, id)
		}
	}
	return fresh
}

// rescanSetup re-parses setupDir and mints initial tasks for any
// newly-added cells/places. Already known cells/places are left
// untouched by csmts.CreateMinimizers's idempotent insert and are
// filtered out of known before InitializeMinimizers ever sees them,
// so a rescan never re-mints a round already in flight.
func rescanSetup(ctx context.Context, client *rpc.Client, store *minimizerstore.Store, setupDir string, runCfg csmts.RunConfig, known *minIDSet) {
	setup, err := setupparser.Parse(setupDir)
	if err != nil {
		log.WithError(err).Warn("re-parsing setup after change notification")
		return
	}
	minIDs, err := csmts.CreateMinimizers(store, setup, runCfg)
	if err != nil {
		log.WithError(err).Warn("creating minimizers for updated setup")
		return
	}
	fresh := known.addNew(minIDs)
	if len(fresh) == 0 {
		return
	}
	log.WithField("count", len(fresh)).Info("new minimizers found on rescan")
	if err := csmts.InitializeMinimizers(ctx, client, store, fresh); err != nil {
		log.WithError(err).Warn("minting initial tasks for updated setup")
	}
}

func runIteration(ctx context.Context, client *rpc.Client, store *minimizerstore.Store, statusPath string) {
	if err := csmts.HandleCompletedTasks(ctx, client, store); err != nil {
		log.WithError(err).Warn("handling completed tasks")
	}

	rows, err := csmts.Statuses(store)
	if err != nil {
		log.WithError(err).Warn("computing statuses")
		return
	}
	if err := statuscsv.WriteCSM(statusPath, rows); err != nil {
		log.WithError(err).Warn("writing status.csv")
	}
}
