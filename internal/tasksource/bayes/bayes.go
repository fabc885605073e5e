// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package bayes drives the Bayesian-optimizer task source's control
// loop, spec.md §4.6: one minimizer per (run, setup, cell, place),
// minting a single task per probed point and folding each completed
// task back into the minimizer as soon as it finishes (num_replicates
// is always 1, unlike the convex-scalar task source's per-round
// replicate groups). Grounded on
// original_source/epihiper_setup_utils/.../bayes_opt_task_source/main.py.
package bayes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vanavreddy/mackenzie/internal/calibration"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/minimizer/bayes"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/store/minimizerstore"
)

var log = logging.Component("bots")

// controllerClient is the subset of *rpc.Client this task source needs.
type controllerClient interface {
	AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error)
	GetAllCompletedTasks(ctx context.Context) (*rpc.GetAllCompletedTasksResponse, error)
	SetTaskProcessed(ctx context.Context, req *rpc.SetTaskProcessedRequest) (*rpc.Empty, error)
}

// MinimizerContext is the fixed per-minimizer context stored alongside
// its serialized state, mirroring the original's BayesOptMinimizerContext.
// Unlike the convex-scalar task source, ParamRanges is plural: the
// Bayesian minimizer searches every cell dimension at once.
type MinimizerContext struct {
	Run          string                   `json:"run"`
	Setup        string                   `json:"setup"`
	Cell         string                   `json:"cell"`
	Place        string                   `json:"place"`
	Multiplier   int                      `json:"multiplier"`
	MaxRuntime   string                   `json:"max_runtime"`
	TaskPriority int                      `json:"task_priority"`
	ParamRanges  []setupparser.ParamRange `json:"param_ranges"`
}

// RunConfig carries the run-wide settings this task source was started
// with, spec.md §6's BOTS_ configuration table.
type RunConfig struct {
	RunName    string
	Multiplier int
	MaxRuntime string
	Minimizer  bayes.Config
}

func minimizerID(run, setup, cell, place string) string {
	return fmt.Sprintf("%s:%s:%s:%s", run, setup, cell, place)
}

// CreateMinimizers creates (idempotently) one minimizer per cell/place
// pair in setup, returning every minimizer id it now owns.
func CreateMinimizers(store *minimizerstore.Store, setup setupparser.Setup, cfg RunConfig) ([]string, error) {
	var minIDs []string
	for _, cell := range setup.Cells {
		if len(cell.ParamRanges) == 0 {
			return nil, fmt.Errorf("cell %s has no parameter ranges", cell.Name)
		}
		minimizerCfg := cfg.Minimizer
		minimizerCfg.NDims = len(cell.ParamRanges)

		for _, place := range cell.Places {
			minID := minimizerID(cfg.RunName, setup.Name, cell.Name, place.Name)
			minContext := MinimizerContext{
				Run: cfg.RunName, Setup: setup.Name, Cell: cell.Name, Place: place.Name,
				Multiplier: cfg.Multiplier, MaxRuntime: cfg.MaxRuntime,
				TaskPriority: place.Priority, ParamRanges: cell.ParamRanges,
			}
			contextJSON, err := json.Marshal(minContext)
			if err != nil {
				return nil, fmt.Errorf("marshaling minimizer context %s: %w", minID, err)
			}
			stateJSON, err := json.Marshal(bayes.New(minimizerCfg).State())
			if err != nil {
				return nil, fmt.Errorf("marshaling initial minimizer state %s: %w", minID, err)
			}
			log.WithField("min_id", minID).Info("creating minimizer")
			if err := store.Create(minID, minimizerstore.Bayesian, string(stateJSON), string(contextJSON)); err != nil {
				return nil, err
			}
			minIDs = append(minIDs, minID)
		}
	}
	return minIDs, nil
}

func loadMinimizer(row *minimizerstore.Minimizer) (*bayes.Minimizer, MinimizerContext, error) {
	var state bayes.State
	if err := json.Unmarshal([]byte(row.State), &state); err != nil {
		return nil, MinimizerContext{}, fmt.Errorf("parsing minimizer state %s: %w", row.MinID, err)
	}
	var minContext MinimizerContext
	if err := json.Unmarshal([]byte(row.Context), &minContext); err != nil {
		return nil, MinimizerContext{}, fmt.Errorf("parsing minimizer context %s: %w", row.MinID, err)
	}
	return bayes.FromState(state), minContext, nil
}

func mintTask(ctx context.Context, ctrl controllerClient, minID string, round int, minContext MinimizerContext, x bayes.Point) error {
	taskGroup := fmt.Sprintf("%s:%d", minID, round)
	taskID := taskGroup
	outputDir := fmt.Sprintf("%s/%s/%s/%s/round_%d",
		minContext.Run, minContext.Setup, minContext.Cell, minContext.Place, round)

	log.WithField("task_id", taskID).Info("creating task")
	task := calibration.Task{
		TaskID: taskID,
		TaskData: calibration.TaskData{
			SetupName:  minContext.Setup,
			Cell:       minContext.Cell,
			Place:      minContext.Place,
			RawParams:  []float64(x),
			Multiplier: minContext.Multiplier,
			MaxRuntime: minContext.MaxRuntime,
		},
		OutputDir:     outputDir,
		MinimizerID:   minID,
		TaskGroup:     taskGroup,
		NumReplicates: 1,
	}
	dataJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshaling task %s: %w", taskID, err)
	}
	_, err = ctrl.AddNewTask(ctx, &rpc.AddNewTaskRequest{
		ID: taskID, Type: "calibration", Data: string(dataJSON), Priority: minContext.TaskPriority,
	})
	return err
}

// InitializeMinimizers mints each freshly created minimizer's initial
// batch of tasks, mirroring the original bayes_opt_task_source main's
// startup loop: a minimizer that already has probed points (resumed
// from a prior run) is left alone.
func InitializeMinimizers(ctx context.Context, ctrl controllerClient, store *minimizerstore.Store, minIDs []string) error {
	for _, minID := range minIDs {
		row, err := store.Get(minID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("minimizer %s not found", minID)
		}
		minimizer, minContext, err := loadMinimizer(row)
		if err != nil {
			return err
		}
		if minimizer.State().PointsProbed != 0 {
			continue
		}
		if err := CreateInitialTasks(ctx, ctrl, minID, minimizer, minContext); err != nil {
			return err
		}
		stateJSON, err := json.Marshal(minimizer.State())
		if err != nil {
			return fmt.Errorf("marshaling minimizer state %s: %w", minID, err)
		}
		if err := store.SaveState(minID, string(stateJSON)); err != nil {
			return err
		}
	}
	return nil
}

// CreateInitialTasks mints one task per minimizer.GetInitialXs() point,
// spec.md §4.6's create_initial_tasks.
func CreateInitialTasks(ctx context.Context, ctrl controllerClient, minID string, minimizer *bayes.Minimizer, minContext MinimizerContext) error {
	for round, x := range minimizer.GetInitialXs() {
		if err := mintTask(ctx, ctrl, minID, round, minContext, x); err != nil {
			return err
		}
	}
	return nil
}

// CreateNextTask mints the next probed point's task, or is a no-op if
// the minimizer is waiting for more initial evaluations or has
// completed, spec.md §4.6's create_next_task.
func CreateNextTask(ctx context.Context, ctrl controllerClient, minID string, minimizer *bayes.Minimizer, minContext MinimizerContext) error {
	round := minimizer.State().PointsProbed

	x, err := minimizer.GetNextX()
	if errors.Is(err, bayes.ErrWait) {
		log.WithField("min_id", minID).Info("waiting for initial evaluations")
		return nil
	}
	if errors.Is(err, bayes.ErrMinimizationComplete) {
		log.WithField("min_id", minID).Info("minimization complete")
		return nil
	}
	if err != nil {
		return err
	}
	return mintTask(ctx, ctrl, minID, round, minContext, x)
}

func handleCompletedTask(ctx context.Context, ctrl controllerClient, store *minimizerstore.Store, entry rpc.CompletedTaskEntry) error {
	var task calibration.Task
	if err := json.Unmarshal([]byte(entry.Data), &task); err != nil {
		return fmt.Errorf("parsing task data for %s: %w", entry.ID, err)
	}
	var result calibration.Result
	if err := json.Unmarshal([]byte(entry.ResultJSON), &result); err != nil {
		return fmt.Errorf("parsing task result for %s: %w", entry.ID, err)
	}

	if _, err := ctrl.SetTaskProcessed(ctx, &rpc.SetTaskProcessedRequest{ID: entry.ID}); err != nil {
		return err
	}

	row, err := store.Get(task.MinimizerID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("minimizer %s not found", task.MinimizerID)
	}
	minimizer, minContext, err := loadMinimizer(row)
	if err != nil {
		return err
	}

	minimizer.SetY(bayes.Point(task.TaskData.RawParams), []float64{result.Objective})
	if err := CreateNextTask(ctx, ctrl, task.MinimizerID, minimizer, minContext); err != nil {
		return err
	}

	stateJSON, err := json.Marshal(minimizer.State())
	if err != nil {
		return fmt.Errorf("marshaling minimizer state %s: %w", task.MinimizerID, err)
	}
	return store.SaveState(task.MinimizerID, string(stateJSON))
}

// HandleCompletedTasks folds every completed task into its minimizer
// immediately, one at a time, spec.md §4.6's handle_completed_tasks.
func HandleCompletedTasks(ctx context.Context, ctrl controllerClient, store *minimizerstore.Store) error {
	resp, err := ctrl.GetAllCompletedTasks(ctx)
	if err != nil {
		return err
	}
	for _, entry := range resp.Tasks {
		if entry.Type != "calibration" {
			continue
		}
		log.WithField("task_id", entry.ID).Info("task completed")
		if err := handleCompletedTask(ctx, ctrl, store, entry); err != nil {
			return err
		}
	}
	return nil
}

func paramString(x bayes.Point, ranges []setupparser.ParamRange) string {
	parts := make([]string, 0, len(ranges))
	for i, r := range ranges {
		if i >= len(x) {
			break
		}
		value := x[i]*(r.Max-r.Min) + r.Min
		parts = append(parts, fmt.Sprintf("%s=%g", r.Name, value))
	}
	return strings.Join(parts, ";")
}

// StatusRow is one minimizer's status.csv row, spec.md §4.6/SPEC_FULL §C.2.
// BestSeenX/BestPredX are carried alongside the human-readable *Params
// strings because the post-optimizer task source reads a prior run's
// best predicted point back out of this same file.
type StatusRow struct {
	Run            string
	Setup          string
	Cell           string
	Place          string
	BestSeenX      bayes.Point
	BestSeenParams string
	BestSeenY      float64
	BestPredX      bayes.Point
	BestPredParams string
	BestPredY      float64
	PointsProbed   int
	PointsSeen     int
	State          string
}

// Statuses reports every Bayesian minimizer's current status, for
// status.csv emission.
func Statuses(store *minimizerstore.Store) ([]StatusRow, error) {
	rows, err := store.ByType(minimizerstore.Bayesian)
	if err != nil {
		return nil, err
	}
	var out []StatusRow
	for _, row := range rows {
		minimizer, minContext, err := loadMinimizer(&row)
		if err != nil {
			return nil, err
		}
		status := StatusRow{
			Run: minContext.Run, Setup: minContext.Setup, Cell: minContext.Cell, Place: minContext.Place,
			PointsProbed: minimizer.State().PointsProbed,
			PointsSeen:   len(minimizer.State().EvalCache),
			State:        minimizer.State().Status,
		}
		if x, y, ok := minimizer.BestSeen(); ok {
			status.BestSeenX = x
			status.BestSeenParams = paramString(x, minContext.ParamRanges)
			status.BestSeenY = y
		}
		if x, mean, _, ok := minimizer.BestPredicted(); ok {
			status.BestPredX = x
			status.BestPredParams = paramString(x, minContext.ParamRanges)
			status.BestPredY = mean
		}
		out = append(out, status)
	}
	return out, nil
}
