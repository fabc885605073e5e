// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package agent drives one cluster's five-phase job pipeline of
// spec.md §4.2, grounded on
// original_source/mackenzie/src/mackenzie/agent/slurm_pipeline.py.
package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vanavreddy/mackenzie/internal/errs"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/scheduler"
	"github.com/vanavreddy/mackenzie/internal/store/jobledger"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
	"github.com/vanavreddy/mackenzie/internal/tarutil"
)

var log = logging.Component("agent")

// SetupTask installs whatever a task of this type needs on disk and
// returns the rendered sbatch script path, the job's load, and its
// max-fails budget, spec.md §4.2.
type SetupTask func(setupRoot string, data json.RawMessage) (scriptPath string, load int, maxFails int, err error)

// GetTaskResult inspects a finished job's output and returns the
// calibration/projection result, or ok=false if the run did not
// produce a usable result.
type GetTaskResult func(setupRoot string, data json.RawMessage) (result json.RawMessage, ok bool, err error)

// Handlers is the per-task-type handler table spec.md §4.2 requires.
type Handlers struct {
	SetupTask     SetupTask
	GetTaskResult GetTaskResult
}

// Config is the agent's validated startup configuration.
type Config struct {
	Cluster   string
	MaxLoad   int
	SetupRoot string
}

// controllerClient is the subset of *rpc.Client the pipeline needs,
// narrowed to an interface so tests can substitute a fake controller.
type controllerClient interface {
	GetAllSetupNames(ctx context.Context) (*rpc.GetAllSetupNamesResponse, error)
	GetSetupDirTar(ctx context.Context, req *rpc.GetSetupDirTarRequest) (*rpc.GetSetupDirTarResponse, error)
	GetSingleAvailableTask(ctx context.Context, req *rpc.GetSingleAvailableTaskRequest) (*rpc.GetSingleAvailableTaskResponse, error)
	SetTaskCompleted(ctx context.Context, req *rpc.SetTaskCompletedRequest) (*rpc.Empty, error)
	SetTaskFailed(ctx context.Context, req *rpc.SetTaskFailedRequest) (*rpc.Empty, error)
}

// schedulerAdaptor is the subset of *scheduler.Adaptor the pipeline
// needs, narrowed to an interface so tests can avoid shelling out.
type schedulerAdaptor interface {
	ListRunning(ctx context.Context) (map[int64]struct{}, error)
	FetchAccounting(ctx context.Context, batchID int64) (string, error)
	Submit(ctx context.Context, scriptPath string, envOverrides map[string]string) (int64, error)
}

// Agent drives the pipeline for one cluster.
type Agent struct {
	cfg      Config
	client   controllerClient
	jobs     *jobledger.Store
	setups   *setupstore.Store
	sched    schedulerAdaptor
	handlers map[string]Handlers
}

// New constructs an Agent.
func New(cfg Config, client *rpc.Client, jobs *jobledger.Store, setups *setupstore.Store, sched *scheduler.Adaptor, handlers map[string]Handlers) *Agent {
	return &Agent{cfg: cfg, client: client, jobs: jobs, setups: setups, sched: sched, handlers: handlers}
}

// RunOnce runs the strict phase order of spec.md §5: sync_setups →
// process_new → process_running → process_failed → process_ready.
// Per spec.md §7, a failure in one phase does not prevent later
// phases of the *next* iteration, but within one iteration we stop at
// the failing phase so later phases never act on partial state.
func (a *Agent) RunOnce(ctx context.Context) error {
	if err := a.syncSetups(ctx); err != nil {
		return fmt.Errorf("sync_setups: %w", err)
	}
	if err := a.processNew(ctx); err != nil {
		return fmt.Errorf("process_new: %w", err)
	}
	if err := a.processRunning(ctx); err != nil {
		return fmt.Errorf("process_running: %w", err)
	}
	if err := a.processFailed(ctx); err != nil {
		return fmt.Errorf("process_failed: %w", err)
	}
	if err := a.processReady(ctx); err != nil {
		return fmt.Errorf("process_ready: %w", err)
	}
	return nil
}

// syncSetups mirrors every setup the controller knows about that this
// agent does not yet have locally, spec.md §4.2 step 1.
const maxConcurrentSetupInstalls = 4

func (a *Agent) syncSetups(ctx context.Context) error {
	resp, err := a.client.GetAllSetupNames(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetupInstalls)
	for _, name := range resp.Names {
		name := name
		g.Go(func() error {
			has, err := a.setups.Has(name)
			if err != nil {
				return err
			}
			if has {
				return nil
			}
			return a.installSetup(gctx, name)
		})
	}
	return g.Wait()
}

func (a *Agent) installSetup(ctx context.Context, name string) error {
	tarResp, err := a.client.GetSetupDirTar(ctx, &rpc.GetSetupDirTarRequest{Name: name})
	if err != nil {
		return err
	}
	sum := sha256.Sum256(tarResp.Tar)
	hash := hex.EncodeToString(sum[:])

	tarPath := filepath.Join(a.cfg.SetupRoot, name+".tar.gz")
	if err := os.WriteFile(tarPath, tarResp.Tar, 0644); err != nil {
		return err
	}
	setupDir := filepath.Join(a.cfg.SetupRoot, name)
	if _, err := os.Stat(setupDir); os.IsNotExist(err) {
		if err := tarutil.ExtractGz(tarPath, a.cfg.SetupRoot); err != nil {
			return err
		}
	}
	return a.setups.Upsert(name, hash)
}

// processNew requests one available task when under live_load budget
// and turns it into a ready job, spec.md §4.2 step 2.
func (a *Agent) processNew(ctx context.Context) error {
	live, err := a.jobs.LoadSum(jobledger.Ready, jobledger.Running, jobledger.Failed)
	if err != nil {
		return err
	}
	if live >= a.cfg.MaxLoad {
		return nil
	}

	resp, err := a.client.GetSingleAvailableTask(ctx, &rpc.GetSingleAvailableTaskRequest{Cluster: a.cfg.Cluster})
	if err != nil {
		return err
	}
	if !resp.Found {
		return nil
	}

	handler, ok := a.handlers[resp.Type]
	if !ok {
		return fmt.Errorf("no handler registered for task type %q", resp.Type)
	}
	scriptPath, load, maxFails, err := handler.SetupTask(a.cfg.SetupRoot, json.RawMessage(resp.Data))
	if err != nil {
		return err
	}
	log.WithField("job_id", resp.ID).Info("job ready")
	return a.jobs.Insert(jobledger.Job{
		JobID: resp.ID, Type: resp.Type, Data: resp.Data, Priority: resp.Priority,
		SbatchScriptPath: scriptPath, Load: load, MaxFails: maxFails,
	})
}

// processRunning drains jobs whose batch id has left the scheduler's
// running set, spec.md §4.2 step 3.
func (a *Agent) processRunning(ctx context.Context) error {
	running, err := a.sched.ListRunning(ctx)
	if err != nil {
		return err
	}
	rows, err := a.jobs.ByState(jobledger.Running)
	if err != nil {
		return err
	}
	for _, job := range rows {
		if job.BatchJobID == nil {
			continue
		}
		if _, stillRunning := running[*job.BatchJobID]; stillRunning {
			continue
		}

		acct, err := a.sched.FetchAccounting(ctx, *job.BatchJobID)
		if err != nil {
			return err
		}
		if err := a.jobs.SetBatchJobCompletionInfo(*job.BatchJobID, time.Now().Unix(), acct); err != nil {
			return err
		}

		handler, ok := a.handlers[job.Type]
		if !ok {
			return fmt.Errorf("no handler registered for task type %q", job.Type)
		}
		result, ok2, err := handler.GetTaskResult(a.cfg.SetupRoot, json.RawMessage(job.Data))
		if err != nil {
			return err
		}
		if ok2 {
			if _, err := a.client.SetTaskCompleted(ctx, &rpc.SetTaskCompletedRequest{ID: job.JobID, ResultJSON: string(result)}); err != nil {
				return err
			}
			if err := a.jobs.SetCompleted(job.JobID, string(result)); err != nil {
				return err
			}
			log.WithField("job_id", job.JobID).Info("job completed")
			continue
		}
		if err := a.jobs.SetFailed(job.JobID); err != nil {
			return err
		}
		log.WithField("job_id", job.JobID).Warn("job failed")
	}
	return nil
}

// processFailed either aborts a job whose failure budget is exhausted
// or re-runs its setup handler and puts it back to ready, spec.md
// §4.2 step 4.
func (a *Agent) processFailed(ctx context.Context) error {
	rows, err := a.jobs.ByState(jobledger.Failed)
	if err != nil {
		return err
	}
	for _, job := range rows {
		if job.FailureCount > job.MaxFails {
			if _, err := a.client.SetTaskFailed(ctx, &rpc.SetTaskFailedRequest{ID: job.JobID}); err != nil {
				return err
			}
			if err := a.jobs.SetAborted(job.JobID); err != nil {
				return err
			}
			log.WithField("job_id", job.JobID).Error("job aborted")
			continue
		}

		handler, ok := a.handlers[job.Type]
		if !ok {
			return fmt.Errorf("no handler registered for task type %q", job.Type)
		}
		scriptPath, load, _, err := handler.SetupTask(a.cfg.SetupRoot, json.RawMessage(job.Data))
		if err != nil {
			return err
		}
		if err := a.jobs.SetReady(job.JobID, scriptPath, load); err != nil {
			return err
		}
		log.WithField("job_id", job.JobID).Info("job ready again")
	}
	return nil
}

// processReady submits ready jobs in priority/load/id order while
// running_load stays within max_load, spec.md §4.2 step 5.
func (a *Agent) processReady(ctx context.Context) error {
	curLoad, err := a.jobs.LoadSum(jobledger.Running)
	if err != nil {
		return err
	}
	rows, err := a.jobs.ByState(jobledger.Ready)
	if err != nil {
		return err
	}
	for _, job := range rows {
		if curLoad+job.Load > a.cfg.MaxLoad {
			break
		}
		batchID, err := a.sched.Submit(ctx, job.SbatchScriptPath, nil)
		if err != nil {
			return err
		}
		curLoad += job.Load
		if err := a.jobs.SetRunning(job.JobID, batchID); err != nil {
			return err
		}
		if err := a.jobs.AddBatchJob(jobledger.BatchJob{BatchJobID: batchID, JobID: job.JobID, StartTime: time.Now().Unix()}); err != nil {
			return err
		}
		log.WithFields(logging.Fields{"job_id": job.JobID, "batch_job_id": batchID}).Info("job running")
	}
	return nil
}

// Run starts the approximately-once-per-second outer loop of spec.md
// §5, grounded on Lens/modules/jobs/pkg/jobs/runner.go's
// cron.New(cron.WithChain(cron.SkipIfStillRunning(...))) pattern. Per
// spec.md §7 propagation policy, any error from RunOnce is caught at
// the iteration boundary and logged; the loop continues on the next
// tick rather than exiting the process.
func (a *Agent) Run(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc("@every 1s", func() {
		if err := a.RunOnce(ctx); err != nil {
			entry := log.WithField("cluster", a.cfg.Cluster)
			if errs.IsTransient(err) {
				entry.WithError(err).Warn("iteration failed, retrying next tick")
			} else {
				entry.WithError(err).Error("iteration failed, retrying next tick")
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling agent loop: %w", err)
	}
	c.Start()
	return c, nil
}
