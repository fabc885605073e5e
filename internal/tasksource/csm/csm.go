// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package csm drives the convex-scalar-minimizer task source's control
// loop, spec.md §4.6: one minimizer per (run, setup, cell, place),
// minting one calibration task per replicate each round and folding
// completed rounds back into the minimizer before minting the next.
// Grounded on
// original_source/epihiper_setup_utils/.../csm_task_source/main.py.
package csm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vanavreddy/mackenzie/internal/calibration"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/minimizer/csm"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/store/minimizerstore"
)

var log = logging.Component("csmts")

// controllerClient is the subset of *rpc.Client this task source needs.
type controllerClient interface {
	AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error)
	GetAllCompletedTasks(ctx context.Context) (*rpc.GetAllCompletedTasksResponse, error)
	SetTaskProcessed(ctx context.Context, req *rpc.SetTaskProcessedRequest) (*rpc.Empty, error)
}

// MinimizerContext is the fixed per-minimizer context stored alongside
// its serialized state, mirroring the original's CsmMinimizerContext.
type MinimizerContext struct {
	Run           string                 `json:"run"`
	Setup         string                 `json:"setup"`
	Cell          string                 `json:"cell"`
	Place         string                 `json:"place"`
	NumReplicates int                    `json:"num_replicates"`
	Multiplier    int                    `json:"multiplier"`
	MaxRuntime    string                 `json:"max_runtime"`
	TaskPriority  int                    `json:"task_priority"`
	ParamRange    setupparser.ParamRange `json:"param_range"`
}

// RunConfig carries the run-wide settings this task source was started
// with, spec.md §6's CSMTS_ configuration table.
type RunConfig struct {
	RunName       string
	NumReplicates int
	Multiplier    int
	MaxRuntime    string
	Minimizer     csm.Config
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
		for _, place := range cell.Places {
			minID := minimizerID(cfg.RunName, setup.Name, cell.Name, place.Name)
			minContext := MinimizerContext{
				Run: cfg.RunName, Setup: setup.Name, Cell: cell.Name, Place: place.Name,
				NumReplicates: cfg.NumReplicates, Multiplier: cfg.Multiplier, MaxRuntime: cfg.MaxRuntime,
				TaskPriority: place.Priority, ParamRange: cell.ParamRanges[0],
			}
			contextJSON, err := json.Marshal(minContext)
			if err != nil {
				return nil, fmt.Errorf("marshaling minimizer context %s: %w", minID, err)
			}
			stateJSON, err := json.Marshal(csm.New(cfg.Minimizer).State())
			if err != nil {
				return nil, fmt.Errorf("marshaling initial minimizer state %s: %w", minID, err)
			}
			log.WithField("min_id", minID).Info("creating minimizer")
			if err := store.Create(minID, minimizerstore.ConvexScalar, string(stateJSON), string(contextJSON)); err != nil {
				return nil, err
			}
			minIDs = append(minIDs, minID)
		}
	}
	return minIDs, nil
}

func loadMinimizer(row *minimizerstore.Minimizer) (*csm.Minimizer, MinimizerContext, error) {
	var state csm.State
	if err := json.Unmarshal([]byte(row.State), &state); err != nil {
		return nil, MinimizerContext{}, fmt.Errorf("parsing minimizer state %s: %w", row.MinID, err)
	}
	var minContext MinimizerContext
	if err := json.Unmarshal([]byte(row.Context), &minContext); err != nil {
		return nil, MinimizerContext{}, fmt.Errorf("parsing minimizer context %s: %w", row.MinID, err)
	}
	return csm.FromState(state), minContext, nil
}

func createNextTask(ctx context.Context, ctrl controllerClient, minID, taskGroup string, round, replicate int, minContext MinimizerContext, rawParams []float64) error {
	taskID := fmt.Sprintf("%s:%d", taskGroup, replicate)
	outputDir := fmt.Sprintf("%s/%s/%s/%s/round_%d/replicate_%d",
		minContext.Run, minContext.Setup, minContext.Cell, minContext.Place, round, replicate)

	log.WithField("task_id", taskID).Info("creating task")
	task := calibration.Task{
		TaskID: taskID,
		TaskData: calibration.TaskData{
			SetupName:  minContext.Setup,
			Cell:       minContext.Cell,
			Place:      minContext.Place,
			RawParams:  rawParams,
			Multiplier: minContext.Multiplier,
			MaxRuntime: minContext.MaxRuntime,
		},
		OutputDir:     outputDir,
		MinimizerID:   minID,
		TaskGroup:     taskGroup,
		NumReplicates: minContext.NumReplicates,
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

// InitializeMinimizers mints each minimizer's first round of replicate
// tasks, mirroring the original csm_task_source main's startup loop
// that loads every freshly created minimizer back out of the store and
// calls create_next_tasks once before entering the poll loop.
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
		if err := CreateNextTasks(ctx, ctrl, minID, minimizer, minContext); err != nil {
			return err
		}
	}
	return nil
}

// CreateNextTasks mints the next round of replicate tasks for minID,
// or is a no-op once the minimizer has completed.
func CreateNextTasks(ctx context.Context, ctrl controllerClient, minID string, minimizer *csm.Minimizer, minContext MinimizerContext) error {
	round := len(minimizer.State().EvalCache)
	taskGroup := fmt.Sprintf("%s:%d", minID, round)

	nextX, err := minimizer.GetNextX()
	if errors.Is(err, csm.ErrMinimizationComplete) {
		log.WithField("min_id", minID).Info("minimization complete")
		return nil
	}
	if err != nil {
		return err
	}

	for replicate := 0; replicate < minContext.NumReplicates; replicate++ {
		if err := createNextTask(ctx, ctrl, minID, taskGroup, round, replicate, minContext, []float64{nextX}); err != nil {
			return err
		}
	}
	return nil
}

// groupedDatum accumulates one task group's replicate results.
type groupedDatum struct {
	taskIDs []string
	x       float64
	ys      []float64
	minID   string
}

func groupCompletedTasks(tasks []rpc.CompletedTaskEntry) (map[string]*groupedDatum, map[string]int, error) {
	grouped := map[string]*groupedDatum{}
	wantReplicates := map[string]int{}
	for _, entry := range tasks {
		if entry.Type != "calibration" {
			continue
		}
		var task calibration.Task
		if err := json.Unmarshal([]byte(entry.Data), &task); err != nil {
			return nil, nil, fmt.Errorf("parsing task data for %s: %w", entry.ID, err)
		}
		var result calibration.Result
		if err := json.Unmarshal([]byte(entry.ResultJSON), &result); err != nil {
			return nil, nil, fmt.Errorf("parsing task result for %s: %w", entry.ID, err)
		}

		gd, ok := grouped[task.TaskGroup]
		if !ok {
			gd = &groupedDatum{minID: task.MinimizerID, x: task.TaskData.RawParams[0]}
			grouped[task.TaskGroup] = gd
		}
		gd.taskIDs = append(gd.taskIDs, entry.ID)
		gd.ys = append(gd.ys, result.Objective)
		wantReplicates[task.TaskGroup] = task.NumReplicates
	}
	return grouped, wantReplicates, nil
}

func handleCompletedGroup(ctx context.Context, ctrl controllerClient, store *minimizerstore.Store, gd *groupedDatum) error {
	for _, taskID := range gd.taskIDs {
		if _, err := ctrl.SetTaskProcessed(ctx, &rpc.SetTaskProcessedRequest{ID: taskID}); err != nil {
			return err
		}
	}

	row, err := store.Get(gd.minID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("minimizer %s not found", gd.minID)
	}
	minimizer, minContext, err := loadMinimizer(row)
	if err != nil {
		return err
	}

	minimizer.SetYs(gd.x, gd.ys)
	if err := CreateNextTasks(ctx, ctrl, gd.minID, minimizer, minContext); err != nil {
		return err
	}

	stateJSON, err := json.Marshal(minimizer.State())
	if err != nil {
		return fmt.Errorf("marshaling minimizer state %s: %w", gd.minID, err)
	}
	return store.SaveState(gd.minID, string(stateJSON))
}

// HandleCompletedTasks drains every fully-replicated completed task
// group and folds it into its minimizer, spec.md §4.6's
// handle_completed_tasks.
func HandleCompletedTasks(ctx context.Context, ctrl controllerClient, store *minimizerstore.Store) error {
	resp, err := ctrl.GetAllCompletedTasks(ctx)
	if err != nil {
		return err
	}
	grouped, wantReplicates, err := groupCompletedTasks(resp.Tasks)
	if err != nil {
		return err
	}

	for taskGroup, gd := range grouped {
		if len(gd.ys) != wantReplicates[taskGroup] {
			continue
		}
		log.WithField("task_group", taskGroup).Info("task group completed")
		if err := handleCompletedGroup(ctx, ctrl, store, gd); err != nil {
			return err
		}
	}
	return nil
}

// StatusRow is one minimizer's status.csv row, spec.md §4.6/SPEC_FULL §C.2.
type StatusRow struct {
	Run       string
	Setup     string
	Cell      string
	Place     string
	BestX     float64
	BestParam float64
	BestY     float64
	NEvals    int
	State     string
}

// Statuses reports every convex-scalar minimizer's current status, for
// status.csv emission.
func Statuses(store *minimizerstore.Store) ([]StatusRow, error) {
	rows, err := store.ByType(minimizerstore.ConvexScalar)
	if err != nil {
		return nil, err
	}
	var out []StatusRow
	for _, row := range rows {
		minimizer, minContext, err := loadMinimizer(&row)
		if err != nil {
			return nil, err
		}
		status := minimizer.Status()
		span := minContext.ParamRange.Max - minContext.ParamRange.Min
		out = append(out, StatusRow{
			Run: minContext.Run, Setup: minContext.Setup, Cell: minContext.Cell, Place: minContext.Place,
			BestX: status.BestX, BestParam: status.BestX*span + minContext.ParamRange.Min,
			BestY: status.BestY, NEvals: status.NEvals, State: status.State,
		})
	}
	return out, nil
}
