// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdcontroller

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vanavreddy/mackenzie/internal/certutil"
	"github.com/vanavreddy/mackenzie/internal/config"
	ctrl "github.com/vanavreddy/mackenzie/internal/controller"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
	"github.com/vanavreddy/mackenzie/internal/store/taskqueue"
	"github.com/vanavreddy/mackenzie/internal/tracing"
)

var log = logging.Component("controller")

var taskQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "task_queue_depth",
	Help: "Number of tasks in the controller's task queue, by state.",
}, []string{"state"})

// runServe is the root command's own action: load CONTROLLER_ config,
// open the setup/task stores, and serve the gRPC surface alongside a
// gin-hosted /healthz and /metrics, until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.DefaultConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	loader := config.NewLoader("CONTROLLER_")
	loader.SetDefault("metrics_port", 9090)
	loader.SetDefault("task_timeout", 600)
	if err := loader.RequireAll("key_file", "cert_file", "setup_root", "controller_host", "controller_port"); err != nil {
		log.WithError(err).Error("invalid controller configuration")
		return err
	}

	tlsConfig, err := certutil.MutualTLSConfig(loader.String("cert_file"), loader.String("key_file"))
	if err != nil {
		return fmt.Errorf("loading TLS credentials: %w", err)
	}

	setups, err := setupstore.Open(loader.String("setup_root") + "/setups.db")
	if err != nil {
		return fmt.Errorf("opening setup store: %w", err)
	}
	tasks, err := taskqueue.Open(loader.String("setup_root") + "/tasks.db")
	if err != nil {
		return fmt.Errorf("opening task queue: %w", err)
	}

	svc := ctrl.New(ctrl.Config{
		SetupRoot:   loader.String("setup_root"),
		TaskTimeout: time.Duration(loader.Int("task_timeout")) * time.Second,
	}, setups, tasks)

	shutdownTracing, err := tracing.Init("mackenzie-controller", "")
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	grpcServer := rpc.NewServer(tlsConfig)
	rpc.RegisterControllerServer(grpcServer, svc)

	rpcAddr := fmt.Sprintf("%s:%d", loader.String("controller_host"), loader.Int("controller_port"))
	lis, err := net.Listen("tcp", rpcAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", rpcAddr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reportQueueDepth(ctx, tasks)

	go func() {
		log.WithField("addr", rpcAddr).Info("controller RPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Error("grpc server stopped")
		}
	}()

	httpAddr := fmt.Sprintf("%s:%d", loader.String("controller_host"), loader.Int("metrics_port"))
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer := &http.Server{Addr: httpAddr, Handler: router}
	go func() {
		log.WithField("addr", httpAddr).Info("controller health/metrics server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down controller")
	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func reportQueueDepth(ctx context.Context, tasks *taskqueue.Store) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	states := []taskqueue.State{taskqueue.Available, taskqueue.Assigned, taskqueue.Completed, taskqueue.Failed, taskqueue.Processed}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range states {
				count, err := tasks.CountByState(s)
				if err != nil {
					log.WithError(err).Warn("counting task queue depth")
					continue
				}
				taskQueueDepth.WithLabelValues(string(s)).Set(float64(count))
			}
		}
	}
}
