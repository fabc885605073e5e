// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package controller implements the business logic behind the RPC
// surface of spec.md §4.1/§6: the setup catalog and task queue,
// exposed as an rpc.ControllerServer. Grounded on
// original_source/mackenzie/src/mackenzie/controller/controller.py.
package controller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vanavreddy/mackenzie/internal/errs"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
	"github.com/vanavreddy/mackenzie/internal/store/taskqueue"
	"github.com/vanavreddy/mackenzie/internal/tarutil"
)

var log = logging.Component("controller")

// Config holds the controller's validated startup configuration.
type Config struct {
	SetupRoot   string
	TaskTimeout time.Duration
}

// Controller implements rpc.ControllerServer.
type Controller struct {
	cfg    Config
	setups *setupstore.Store
	tasks  *taskqueue.Store
}

var _ rpc.ControllerServer = (*Controller)(nil)

// New constructs a Controller backed by the setup and task stores.
func New(cfg Config, setups *setupstore.Store, tasks *taskqueue.Store) *Controller {
	return &Controller{cfg: cfg, setups: setups, tasks: tasks}
}

// AddSetup implements spec.md §4.1 add_setup: hash-verify against any
// existing tar on disk, write+untar atomically, then upsert the
// catalog row, idempotently.
func (c *Controller) AddSetup(ctx context.Context, req *rpc.AddSetupRequest) (*rpc.Empty, error) {
	log.WithField("setup", req.Name).Info("received add_setup")

	sum := sha256.Sum256(req.Tar)
	incomingHash := hex.EncodeToString(sum[:])

	tarPath := filepath.Join(c.cfg.SetupRoot, req.Name+".tar.gz")
	if existing, err := os.ReadFile(tarPath); err == nil {
		existingSum := sha256.Sum256(existing)
		if hex.EncodeToString(existingSum[:]) != incomingHash {
			return nil, errs.NewConflict(fmt.Sprintf("setup %q already bound to a different tar", req.Name))
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading existing tar %s: %w", tarPath, err)
	} else {
		if err := writeFileAtomic(tarPath, req.Tar, 0644); err != nil {
			return nil, fmt.Errorf("writing setup tar: %w", err)
		}
	}

	setupDir := filepath.Join(c.cfg.SetupRoot, req.Name)
	if _, err := os.Stat(setupDir); os.IsNotExist(err) {
		if err := tarutil.ExtractGz(tarPath, c.cfg.SetupRoot); err != nil {
			return nil, fmt.Errorf("extracting setup tar: %w", err)
		}
		if _, err := os.Stat(setupDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("untarring %s did not produce %s", tarPath, setupDir)
		}
	}

	if err := c.setups.Upsert(req.Name, incomingHash); err != nil && !errs.IsConflict(err) {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (c *Controller) GetAllSetupNames(ctx context.Context, req *rpc.GetAllSetupNamesRequest) (*rpc.GetAllSetupNamesResponse, error) {
	names, err := c.setups.Names()
	if err != nil {
		return nil, err
	}
	return &rpc.GetAllSetupNamesResponse{Names: names}, nil
}

func (c *Controller) GetSetupDirTar(ctx context.Context, req *rpc.GetSetupDirTarRequest) (*rpc.GetSetupDirTarResponse, error) {
	tarPath := filepath.Join(c.cfg.SetupRoot, req.Name+".tar.gz")
	b, err := os.ReadFile(tarPath)
	if os.IsNotExist(err) {
		return nil, errs.NewNotFound(fmt.Sprintf("tar file for %q not found", req.Name))
	}
	if err != nil {
		return nil, err
	}
	return &rpc.GetSetupDirTarResponse{Tar: b}, nil
}

// GetSingleAvailableTask implements spec.md §4.1's lazy-reclaim then
// assign behavior.
func (c *Controller) GetSingleAvailableTask(ctx context.Context, req *rpc.GetSingleAvailableTaskRequest) (*rpc.GetSingleAvailableTaskResponse, error) {
	task, err := c.tasks.GetSingleAvailable(req.Cluster, time.Now(), c.cfg.TaskTimeout)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return &rpc.GetSingleAvailableTaskResponse{Found: false}, nil
	}
	log.WithFields(logging.Fields{"task_id": task.ID, "cluster": req.Cluster}).Info("task assigned")
	return &rpc.GetSingleAvailableTaskResponse{
		Found:    true,
		ID:       task.ID,
		Type:     task.Type,
		Data:     task.Data,
		Priority: task.Priority,
	}, nil
}

func (c *Controller) SetTaskCompleted(ctx context.Context, req *rpc.SetTaskCompletedRequest) (*rpc.Empty, error) {
	log.WithField("task_id", req.ID).Info("task completed")
	if err := c.tasks.SetCompleted(req.ID, req.ResultJSON); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (c *Controller) SetTaskFailed(ctx context.Context, req *rpc.SetTaskFailedRequest) (*rpc.Empty, error) {
	log.WithField("task_id", req.ID).Info("task failed")
	if err := c.tasks.SetFailed(req.ID); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (c *Controller) AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error) {
	log.WithField("task_id", req.ID).Info("adding new task")
	if err := c.tasks.AddNew(req.ID, req.Type, req.Data, req.Priority); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (c *Controller) GetAllCompletedTasks(ctx context.Context, req *rpc.GetAllCompletedTasksRequest) (*rpc.GetAllCompletedTasksResponse, error) {
	rows, err := c.tasks.AllCompleted()
	if err != nil {
		return nil, err
	}
	out := make([]rpc.CompletedTaskEntry, len(rows))
	for i, r := range rows {
		out[i] = rpc.CompletedTaskEntry{ID: r.ID, Type: r.Type, Data: r.Data, ResultJSON: r.Result}
	}
	return &rpc.GetAllCompletedTasksResponse{Tasks: out}, nil
}

func (c *Controller) SetTaskProcessed(ctx context.Context, req *rpc.SetTaskProcessedRequest) (*rpc.Empty, error) {
	log.WithField("task_id", req.ID).Info("task processed")
	if err := c.tasks.SetProcessed(req.ID); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

