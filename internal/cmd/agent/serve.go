// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdagent

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/agent"
	"github.com/vanavreddy/mackenzie/internal/calibration"
	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/projection"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/scheduler"
	"github.com/vanavreddy/mackenzie/internal/store/jobledger"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
)

var log = logging.Component("agent")

func runAgent(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("AGENT_")
	loader.SetDefault("metrics_port", 9091)
	if err := loader.RequireAll("key_file", "cert_file", "setup_root", "cluster", "max_load", "controller_host", "controller_port"); err != nil {
		log.WithError(err).Error("invalid agent configuration")
		return err
	}

	env, err := loadEnvironmentConfig(envFilePath)
	if err != nil {
		return err
	}
	if env.Cluster != loader.String("cluster") {
		log.WithFields(logging.Fields{"env_file_cluster": env.Cluster, "agent_cluster": loader.String("cluster")}).
			Warn("env file cluster does not match AGENT_CLUSTER")
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

	jobs, err := jobledger.Open(loader.String("setup_root") + "/jobs.db")
	if err != nil {
		return fmt.Errorf("opening job ledger: %w", err)
	}
	setups, err := setupstore.Open(loader.String("setup_root") + "/agent-setups.db")
	if err != nil {
		return fmt.Errorf("opening setup store: %w", err)
	}
	sched, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("building scheduler adaptor: %w", err)
	}

	handlers := map[string]agent.Handlers{
		"calibration": {
			SetupTask:     calibration.NewSetupTask(outputRoot, env),
			GetTaskResult: calibration.NewGetTaskResult(outputRoot, env),
		},
		"projection": {
			SetupTask:     projection.NewSetupTask(outputRoot, env),
			GetTaskResult: projection.NewGetTaskResult(outputRoot, env),
		},
	}

	a := agent.New(agent.Config{
		Cluster:   loader.String("cluster"),
		MaxLoad:   loader.Int("max_load"),
		SetupRoot: loader.String("setup_root"),
	}, client, jobs, setups, sched, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpAddr := fmt.Sprintf(":%d", loader.Int("metrics_port"))
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer := &http.Server{Addr: httpAddr, Handler: router}
	go func() {
		log.WithField("addr", httpAddr).Info("agent health/metrics server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped")
		}
	}()

	cronRunner, err := a.Run(ctx)
	if err != nil {
		return fmt.Errorf("starting agent pipeline: %w", err)
	}

	log.WithField("cluster", loader.String("cluster")).Info("agent running")
	<-ctx.Done()
	log.Info("shutting down agent")
	cronCtx := cronRunner.Stop()
	<-cronCtx.Done()
	return nil
}
