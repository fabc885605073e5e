// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package postopt drives the post-optimizer task source, spec.md
// §4.6/§C.3: it replays a completed calibration run's best predicted
// point, read from that run's status.csv, as a fixed number of
// validation replicate tasks. No minimizer feedback loop — every task
// it mints is final. Grounded on
// original_source/epihiper_setup_utils/.../post_opt_task_source/main.py.
package postopt

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vanavreddy/mackenzie/internal/calibration"
	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
)

var log = logging.Component("pots")

// controllerClient is the subset of *rpc.Client this task source needs.
type controllerClient interface {
	AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error)
}

// cellPlace identifies one opt-status row.
type cellPlace struct{ cell, place string }

// ReadBestX parses an optimizer status.csv (spec.md §C.2's
// cell/place/best_pred_x columns, best_pred_x a JSON float array) into
// a lookup by (cell, place).
func ReadBestX(path string) (map[cellPlace][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening opt status file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading opt status header %s: %w", path, err)
	}
	cellIdx, placeIdx, xIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case "cell":
			cellIdx = i
		case "place":
			placeIdx = i
		case "best_pred_x":
			xIdx = i
		}
	}
	if cellIdx < 0 || placeIdx < 0 || xIdx < 0 {
		return nil, fmt.Errorf("opt status file %s missing cell/place/best_pred_x columns", path)
	}

	out := map[cellPlace][]float64{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading opt status row %s: %w", path, err)
		}
		var xs []float64
		if err := json.Unmarshal([]byte(rec[xIdx]), &xs); err != nil {
			return nil, fmt.Errorf("parsing best_pred_x for %s/%s: %w", rec[cellIdx], rec[placeIdx], err)
		}
		out[cellPlace{rec[cellIdx], rec[placeIdx]}] = xs
	}
	return out, nil
}

// RunConfig carries the run-wide settings this task source was started
// with, spec.md §6's POTS_ configuration table.
type RunConfig struct {
	RunName    string
	Multiplier int
	MaxRuntime string
	NumEvals   int
}

func minimizerID(run, setup, cell, place string) string {
	return fmt.Sprintf("%s:%s:%s:%s", run, setup, cell, place)
}

func createTask(ctx context.Context, ctrl controllerClient, minID, taskGroup, run string, replicate, priority, multiplier int, maxRuntime, setup, cell, place string, rawParams []float64) {
	taskID := fmt.Sprintf("%s:%d", taskGroup, replicate)
	outputDir := fmt.Sprintf("%s/%s/%s/%s/post_opt_runs/replicate_%d", run, setup, cell, place, replicate)

	log.WithField("task_id", taskID).Info("creating task")
	task := calibration.Task{
		TaskID: taskID,
		TaskData: calibration.TaskData{
			SetupName: setup, Cell: cell, Place: place,
			RawParams: rawParams, Multiplier: multiplier, MaxRuntime: maxRuntime,
		},
		OutputDir:     outputDir,
		MinimizerID:   minID,
		TaskGroup:     taskGroup,
		NumReplicates: 1,
	}
	dataJSON, err := json.Marshal(task)
	if err != nil {
		log.WithField("task_id", taskID).Warnf("failed to marshal task: %v", err)
		return
	}
	if _, err := ctrl.AddNewTask(ctx, &rpc.AddNewTaskRequest{
		ID: taskID, Type: "calibration", Data: string(dataJSON), Priority: priority,
	}); err != nil {
		log.WithField("task_id", taskID).Warnf("failed to add task: %v", err)
	}
}

// CreateTasks mints NumEvals replicate tasks per (cell, place),
// replaying each place's best predicted point from bestX, spec.md
// §C.3's post-optimizer fan-out. A cell/place with no entry in bestX
// is skipped with a warning rather than failing the whole run.
func CreateTasks(ctx context.Context, ctrl controllerClient, setup setupparser.Setup, cfg RunConfig, bestX map[cellPlace][]float64) {
	for _, cell := range setup.Cells {
		for _, place := range cell.Places {
			rawParams, ok := bestX[cellPlace{cell.Name, place.Name}]
			if !ok {
				log.WithField("cell", cell.Name).WithField("place", place.Name).Warn("no optimizer result for cell/place, skipping")
				continue
			}
			minID := minimizerID(cfg.RunName, setup.Name, cell.Name, place.Name)
			taskGroup := "post_opt:" + minID
			for replicate := 0; replicate < cfg.NumEvals; replicate++ {
				createTask(ctx, ctrl, minID, taskGroup, cfg.RunName, replicate, place.Priority, cfg.Multiplier, cfg.MaxRuntime, setup.Name, cell.Name, place.Name, rawParams)
			}
		}
	}
}
